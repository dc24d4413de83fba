package util

import (
	"context"
	"time"
)

// ErrorClass 重试分类。分类器与具体传输解耦，由调用方注入。
type ErrorClass int

const (
	// ErrFatal 不可重试
	ErrFatal ErrorClass = iota
	// ErrRateLimited 限流类错误：指数退避，最多 MaxAttempts 次
	ErrRateLimited
	// ErrNonceConflict nonce/替换冲突类错误：固定等待后只重试一次
	ErrNonceConflict
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	NonceDelay  time.Duration
	Classify    func(error) ErrorClass
}

func DefaultRetryPolicy(classify func(error) ErrorClass) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		NonceDelay:  2 * time.Second,
		Classify:    classify,
	}
}

// WithRetry 按策略执行 fn。限流错误退避重试（延迟翻倍），nonce 冲突
// 固定等待一次重试，其余错误直接返回。ctx 取消优先于等待。
func WithRetry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	delay := policy.BaseDelay
	attempts := 0
	nonceRetried := false

	for {
		err := fn()
		if err == nil {
			return nil
		}

		class := ErrFatal
		if policy.Classify != nil {
			class = policy.Classify(err)
		}

		switch class {
		case ErrRateLimited:
			attempts++
			if attempts >= maxAttempts {
				return err
			}
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		case ErrNonceConflict:
			if nonceRetried {
				return err
			}
			nonceRetried = true
			if err := sleepCtx(ctx, policy.NonceDelay); err != nil {
				return err
			}
		default:
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
