package controller

import (
	"time"

	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Progress   *service.ProgressService
	Assessment *service.AssessmentService
}

func NewAssessmentController(progress *service.ProgressService, assessment *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Progress: progress, Assessment: assessment}
}

// @Summary 提交单题答案
// @Description 校验答案并追加进度记录，返回判定结果和得分
// @Tags 测评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/answers [post]
func (c *AssessmentController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Progress.SubmitAnswer(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 当前答题进度
// @Description 归并后的每题一条视图，键为 sectionId:questionId
// @Tags 测评
// @Produce json
// @Security ApiKeyAuth
// @Param questId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/progress/{questId} [get]
func (c *AssessmentController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress := c.Progress.Reconcile(ctx.Request.Context(), claims.Wallet, ctx.Param("questId"))
	util.Success(ctx, progress)
}

type completeRequest struct {
	QuestID   string    `json:"questId" binding:"required"`
	StartedAt time.Time `json:"startedAt"`
}

// @Summary 结算测验
// @Description 归并进度、计分并落账；通过时附带认证块
// @Tags 测评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body completeRequest true "结算请求"
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/assessments/complete [post]
func (c *AssessmentController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req completeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.StartedAt.IsZero() {
		req.StartedAt = time.Now()
	}

	resp, err := c.Assessment.Complete(ctx.Request.Context(), claims.Wallet, req.QuestID, req.StartedAt)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// @Summary 测评结果
// @Description 最近一次结算的结果；没有结果返回空
// @Tags 测评
// @Produce json
// @Security ApiKeyAuth
// @Param questId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{questId}/result [get]
func (c *AssessmentController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Assessment.GetResult(ctx.Request.Context(), claims.Wallet, ctx.Param("questId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
