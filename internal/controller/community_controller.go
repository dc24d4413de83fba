package controller

import (
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	Service *service.CommunityService
}

func NewCommunityController(svc *service.CommunityService) *CommunityController {
	return &CommunityController{Service: svc}
}

// @Summary 发布辅导帖
// @Description kind 为 ask（求助）或 offer（提供辅导）
// @Tags 社区
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MentorPostRequest true "帖子内容"
// @Success 201 {object} util.Response
// @Router /api/mentor-posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MentorPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.Service.CreatePost(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, post)
}

// @Summary 编辑辅导帖
// @Description 只有帖主可以编辑；编辑是追加新版本而非原地更新
// @Tags 社区
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param postId path string true "帖子ID"
// @Param body body service.MentorPostRequest true "帖子内容"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/mentor-posts/{postId} [put]
func (c *CommunityController) UpdatePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MentorPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.Service.UpdatePost(ctx.Request.Context(), claims.Wallet, ctx.Param("postId"), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// @Summary 归档辅导帖
// @Tags 社区
// @Produce json
// @Security ApiKeyAuth
// @Param postId path string true "帖子ID"
// @Success 200 {object} util.Response
// @Router /api/mentor-posts/{postId} [delete]
func (c *CommunityController) Archive(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Archive(ctx.Request.Context(), claims.Wallet, ctx.Param("postId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"postId": ctx.Param("postId"), "archived": true})
}

// @Summary 帖子详情
// @Tags 社区
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/mentor-posts/{postId} [get]
func (c *CommunityController) GetPost(ctx *gin.Context) {
	post, err := c.Service.GetPost(ctx.Request.Context(), ctx.Param("postId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// @Summary 辅导帖列表
// @Description 只返回每帖当前版本，已归档的不出现
// @Tags 社区
// @Produce json
// @Param kind query string false "ask 或 offer"
// @Param topic query string false "按话题过滤"
// @Success 200 {object} util.Response
// @Router /api/mentor-posts [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	posts, err := c.Service.ListPosts(ctx.Request.Context(), ctx.Query("kind"), ctx.Query("topic"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, posts)
}
