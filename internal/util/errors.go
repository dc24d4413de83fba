package util

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrWalletRegistered = errors.New("该钱包地址已被绑定")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuestNotFound    = errors.New("quest not found")
	ErrQuestionNotFound = errors.New("question not found in quest")
	ErrDeckNotFound     = errors.New("flashcard deck not found")
	ErrCardNotFound     = errors.New("card not found in deck")
	ErrPostNotFound     = errors.New("mentor post not found")
	ErrResultNotFound   = errors.New("assessment result not found")
	ErrNotifyNotFound   = errors.New("notification not found")
	ErrInvalidRating    = errors.New("invalid review rating")
)

// ValidationError 创建测验时的定义校验错误，聚合为人类可读的消息列表。
// 校验错误只在创建时出现，绝不进入判分路径。
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quest definition: " + strings.Join(e.Problems, "; ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
