package app

import (
	"arkiv_quests_backend/docs"
	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/internal/middleware"
	"arkiv_quests_backend/internal/model"

	"arkiv_quests_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAuthorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 浏览类接口允许游客访问
		public.GET("/quests", middleware.TryAuthMiddleware(a.Config), c.quest.ListQuests)
		public.GET("/quests/:questId", middleware.TryAuthMiddleware(a.Config), c.quest.GetQuest)
		public.GET("/mentor-posts", middleware.TryAuthMiddleware(a.Config), c.community.ListPosts)
		public.GET("/mentor-posts/:postId", middleware.TryAuthMiddleware(a.Config), c.community.GetPost)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 答题与测评
	rg.POST("/progress/answers", c.assessment.SubmitAnswer)
	rg.GET("/progress/:questId", c.assessment.GetProgress)
	rg.POST("/assessments/complete", c.assessment.Complete)
	rg.GET("/assessments/:questId/result", c.assessment.GetResult)
	rg.POST("/quiz/submit", c.quiz.Submit)

	// 闪卡
	rg.POST("/flashcards/decks", c.flashcard.CreateDeck)
	rg.GET("/flashcards/decks", c.flashcard.ListDecks)
	rg.GET("/flashcards/decks/:deckId", c.flashcard.GetDeck)
	rg.GET("/flashcards/decks/:deckId/mastery", c.flashcard.Mastery)
	rg.POST("/flashcards/reviews", c.flashcard.SubmitReview)

	// 反思
	rg.POST("/reflections", c.reflection.Create)
	rg.GET("/reflections", c.reflection.List)
	rg.POST("/reflections/attachments", c.reflection.UploadAttachment)

	// 社区辅导帖
	rg.POST("/mentor-posts", c.community.CreatePost)
	rg.PUT("/mentor-posts/:postId", c.community.UpdatePost)
	rg.DELETE("/mentor-posts/:postId", c.community.Archive)

	// 通知
	rg.GET("/notifications", c.notification.List)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)

	// 证据流水
	rg.GET("/evidence", c.evidence.List)
	rg.GET("/evidence/:txHash", c.evidence.GetByTxHash)
}

// registerAuthorRoutes 测验创作接口，面向导师和管理员
func (a *App) registerAuthorRoutes(rg *gin.RouterGroup, c *controllers) {
	author := rg.Group("/")
	author.Use(middleware.RoleMiddleware(model.Mentor, model.Admin))
	{
		author.POST("/quests", c.quest.CreateQuest)
		author.DELETE("/quests/:questId", c.quest.Unpublish)
		author.GET("/quests/:questId/versions", c.quest.ListVersions)
	}
}
