package controller

import (
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary 提交内联评分标准的小测验
// @Description 按请求自带的 rubric 判分并落账，不查存储的测验定义
// @Tags 测评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitQuizRequest true "提交内容"
// @Success 200 {object} util.Response
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	score, err := c.Service.Submit(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, score)
}
