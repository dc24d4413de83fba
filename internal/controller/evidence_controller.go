package controller

import (
	"strconv"

	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvidenceController struct {
	Service *service.EvidenceService
}

func NewEvidenceController(svc *service.EvidenceService) *EvidenceController {
	return &EvidenceController{Service: svc}
}

// @Summary 我的证据记录
// @Description 账本写入的观测流水，最新在前
// @Tags 证据
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数上限，默认50"
// @Success 200 {object} util.Response
// @Router /api/evidence [get]
func (c *EvidenceController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	records, err := c.Service.List(ctx.Request.Context(), claims.Wallet, limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// @Summary 按交易哈希查证据
// @Tags 证据
// @Produce json
// @Security ApiKeyAuth
// @Param txHash path string true "交易哈希"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/evidence/{txHash} [get]
func (c *EvidenceController) GetByTxHash(ctx *gin.Context) {
	record, err := c.Service.GetByTxHash(ctx.Request.Context(), ctx.Param("txHash"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, record)
}
