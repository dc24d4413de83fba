package controller

import (
	"errors"
	"net/http"

	"arkiv_quests_backend/internal/repository"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// handleServiceError 统一的服务层错误到响应映射。
// 原始基础设施错误文本不透出给用户。
func handleServiceError(c *gin.Context, err error) {
	if ve, ok := util.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, util.Response{
			Code:    http.StatusBadRequest,
			Message: "invalid definition",
			Data:    gin.H{"problems": ve.Problems},
		})
		return
	}

	switch {
	case errors.Is(err, util.ErrQuestNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrDeckNotFound),
		errors.Is(err, util.ErrCardNotFound),
		errors.Is(err, util.ErrPostNotFound),
		errors.Is(err, util.ErrResultNotFound),
		errors.Is(err, util.ErrNotifyNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrInvalidRating):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrWalletRegistered):
		util.BadRequest(c, err.Error())
	default:
		// 瞬态写入错误按"已受理待确认"处理：底层写入可能已成功
		if repository.ClassifyWriteError(err) != util.ErrFatal {
			util.RetryLater(c, err)
			return
		}
		util.LogInternalError(c, err)
	}
}
