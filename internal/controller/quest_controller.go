package controller

import (
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestController struct {
	Service *service.QuestService
}

func NewQuestController(svc *service.QuestService) *QuestController {
	return &QuestController{Service: svc}
}

// @Summary 发布测验定义
// @Description 校验定义并作为新版本追加到账本；校验失败返回问题列表
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestRequest true "测验定义"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/quests [post]
func (c *QuestController) CreateQuest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.Service.CreateQuest(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, quest)
}

// @Summary 测验列表
// @Description 每个测验只返回当前生效版本，已下线的不出现
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quests [get]
func (c *QuestController) ListQuests(ctx *gin.Context) {
	quests, err := c.Service.ListQuests(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quests)
}

// @Summary 测验详情
// @Tags 测验
// @Produce json
// @Param questId path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quests/{questId} [get]
func (c *QuestController) GetQuest(ctx *gin.Context) {
	quest, err := c.Service.CurrentByQuestID(ctx.Request.Context(), ctx.Param("questId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// @Summary 测验历史版本
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param questId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quests/{questId}/versions [get]
func (c *QuestController) ListVersions(ctx *gin.Context) {
	versions, err := c.Service.ListVersions(ctx.Request.Context(), ctx.Param("questId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, versions)
}

// @Summary 下线测验
// @Description 追加 inactive 版本；只有创建者可以下线
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param questId path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/quests/{questId} [delete]
func (c *QuestController) Unpublish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Unpublish(ctx.Request.Context(), claims.Wallet, ctx.Param("questId")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"questId": ctx.Param("questId"), "active": false})
}
