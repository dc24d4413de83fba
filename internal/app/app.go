package app

import (
	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/internal/controller"
	"arkiv_quests_backend/internal/repository"
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/pkg/database"
	"arkiv_quests_backend/pkg/logger"
	"arkiv_quests_backend/pkg/monitoring"
	"arkiv_quests_backend/pkg/security"
	"arkiv_quests_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	ledger     *repository.LedgerRepository
	quest      *repository.QuestRepository
	progress   *repository.ProgressRepository
	result     *repository.ResultRepository
	flashcard  *repository.FlashcardRepository
	reflection *repository.ReflectionRepository
	mentorPost *repository.MentorPostRepository
	notify     *repository.NotificationRepository
	evidence   *repository.EvidenceRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	quest        *service.QuestService
	progress     *service.ProgressService
	assessment   *service.AssessmentService
	quiz         *service.QuizService
	flashcard    *service.FlashcardService
	reflection   *service.ReflectionService
	community    *service.CommunityService
	notification *service.NotificationService
	evidence     *service.EvidenceService
}

type controllers struct {
	auth         *controller.AuthController
	quest        *controller.QuestController
	assessment   *controller.AssessmentController
	quiz         *controller.QuizController
	flashcard    *controller.FlashcardController
	reflection   *controller.ReflectionController
	community    *controller.CommunityController
	notification *controller.NotificationController
	evidence     *controller.EvidenceController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, cfg *config.Config) *repositories {
	ledger := repository.NewLedgerRepository(db, &cfg.Ledger)
	return &repositories{
		user:       repository.NewUserRepository(db),
		ledger:     ledger,
		quest:      repository.NewQuestRepository(ledger),
		progress:   repository.NewProgressRepository(ledger),
		result:     repository.NewResultRepository(ledger),
		flashcard:  repository.NewFlashcardRepository(ledger),
		reflection: repository.NewReflectionRepository(ledger),
		mentorPost: repository.NewMentorPostRepository(ledger),
		notify:     repository.NewNotificationRepository(ledger),
		evidence:   repository.NewEvidenceRepository(ledger),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)

	s.evidence = service.NewEvidenceService(repos.evidence, cfg.Ledger.ReceiptTimeout)
	s.notification = service.NewNotificationService(repos.notify, rdb)

	questCacheTTL := time.Duration(cfg.Ledger.QuestCacheSeconds) * time.Second
	s.quest = service.NewQuestService(repos.quest, rdb, questCacheTTL)

	// 判分路径统一走带缓存的 quest 服务读取当前版本
	s.progress = service.NewProgressService(s.quest, repos.progress, s.evidence)
	s.assessment = service.NewAssessmentService(s.quest, s.progress, repos.result, s.evidence, s.notification)
	s.quiz = service.NewQuizService(service.NewQuizLedgerStore(repos.ledger))

	s.flashcard = service.NewFlashcardService(repos.flashcard)
	s.reflection = service.NewReflectionService(repos.reflection)
	s.community = service.NewCommunityService(repos.mentorPost)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		quest:        controller.NewQuestController(s.quest),
		assessment:   controller.NewAssessmentController(s.progress, s.assessment),
		quiz:         controller.NewQuizController(s.quiz),
		flashcard:    controller.NewFlashcardController(s.flashcard),
		reflection:   controller.NewReflectionController(s.reflection, s.storage),
		community:    controller.NewCommunityController(s.community),
		notification: controller.NewNotificationController(s.notification),
		evidence:     controller.NewEvidenceController(s.evidence),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, cfg)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("arkiv-quests", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
