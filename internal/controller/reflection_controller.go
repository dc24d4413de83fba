package controller

import (
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReflectionController struct {
	Service *service.ReflectionService
	Storage *service.StorageService
}

func NewReflectionController(svc *service.ReflectionService, storage *service.StorageService) *ReflectionController {
	return &ReflectionController{Service: svc, Storage: storage}
}

// @Summary 提交学习反思
// @Tags 反思
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ReflectionRequest true "反思内容"
// @Success 201 {object} util.Response
// @Router /api/reflections [post]
func (c *ReflectionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ReflectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, err := c.Service.Create(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, ref)
}

// @Summary 我的反思列表
// @Tags 反思
// @Produce json
// @Security ApiKeyAuth
// @Param questId query string false "按测验过滤"
// @Success 200 {object} util.Response
// @Router /api/reflections [get]
func (c *ReflectionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reflections, err := c.Service.List(ctx.Request.Context(), claims.Wallet, ctx.Query("questId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, reflections)
}

// @Summary 上传反思附件
// @Description 上传后把返回的 URL 填进反思的 attachmentUrl
// @Tags 反思
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "附件文件"
// @Success 200 {object} util.Response
// @Router /api/reflections/attachments [post]
func (c *ReflectionController) UploadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "文件不能为空")
		return
	}

	url, err := c.Storage.UploadAttachment(ctx.Request.Context(), header, "reflections")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
