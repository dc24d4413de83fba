package controller

import (
	"arkiv_quests_backend/internal/service"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	Service *service.FlashcardService
}

func NewFlashcardController(svc *service.FlashcardService) *FlashcardController {
	return &FlashcardController{Service: svc}
}

// @Summary 创建或编辑卡组
// @Description 同 deckId 再次提交即追加新版本
// @Tags 闪卡
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DeckRequest true "卡组"
// @Success 201 {object} util.Response
// @Router /api/flashcards/decks [post]
func (c *FlashcardController) CreateDeck(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.DeckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	deck, err := c.Service.CreateDeck(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, deck)
}

// @Summary 我的卡组列表
// @Tags 闪卡
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/flashcards/decks [get]
func (c *FlashcardController) ListDecks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	decks, err := c.Service.ListDecks(ctx.Request.Context(), claims.Wallet)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, decks)
}

// @Summary 卡组详情
// @Tags 闪卡
// @Produce json
// @Security ApiKeyAuth
// @Param deckId path string true "卡组ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/flashcards/decks/{deckId} [get]
func (c *FlashcardController) GetDeck(ctx *gin.Context) {
	deck, err := c.Service.GetDeck(ctx.Request.Context(), ctx.Param("deckId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, deck)
}

// @Summary 提交复习评级
// @Tags 闪卡
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ReviewRequest true "复习记录"
// @Success 200 {object} util.Response
// @Router /api/flashcards/reviews [post]
func (c *FlashcardController) SubmitReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.Service.SubmitReview(ctx.Request.Context(), claims.Wallet, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// @Summary 卡组掌握度
// @Description 按最近一次复习评级归并出的每卡掌握情况
// @Tags 闪卡
// @Produce json
// @Security ApiKeyAuth
// @Param deckId path string true "卡组ID"
// @Success 200 {object} util.Response
// @Router /api/flashcards/decks/{deckId}/mastery [get]
func (c *FlashcardController) Mastery(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	mastery, err := c.Service.Mastery(ctx.Request.Context(), claims.Wallet, ctx.Param("deckId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, mastery)
}
