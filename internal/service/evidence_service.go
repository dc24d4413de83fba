package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

// EvidenceStore 证据记录的账本读写
type EvidenceStore interface {
	AppendEvidence(ctx context.Context, ev *model.EvidenceRecord) (*model.LedgerRecord, error)
	FindByTxHash(ctx context.Context, txHash string) (*model.EvidenceRecord, error)
	ListByWallet(ctx context.Context, wallet string, limit int) ([]model.EvidenceRecord, error)
}

// EvidenceService 链式观测记录。写入本身走账本的统一重试策略；
// 这里额外做回执确认：确认超时不是失败，写入可能已经落账，
// 状态记为 pending 交给用户稍后刷新。
type EvidenceService struct {
	Store          EvidenceStore
	ReceiptTimeout time.Duration
}

func NewEvidenceService(store EvidenceStore, receiptTimeout time.Duration) *EvidenceService {
	return &EvidenceService{Store: store, ReceiptTimeout: receiptTimeout}
}

// Record 写入一条证据并确认回执
func (s *EvidenceService) Record(ctx context.Context, wallet, questID, action, refKey string) (*model.EvidenceRecord, error) {
	now := time.Now()
	ev := &model.EvidenceRecord{
		TxHash:     deriveTxHash(wallet, questID, action, refKey, now),
		Wallet:     wallet,
		QuestID:    questID,
		Action:     action,
		RefKey:     refKey,
		Status:     model.EvidenceConfirmed,
		RecordedAt: now,
	}

	if _, err := s.Store.AppendEvidence(ctx, ev); err != nil {
		return nil, err
	}

	confirmCtx, cancel := context.WithTimeout(ctx, s.ReceiptTimeout)
	defer cancel()
	if _, err := s.Store.FindByTxHash(confirmCtx, ev.TxHash); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(confirmCtx.Err(), context.DeadlineExceeded) {
			ev.Status = model.EvidencePending
			logger.Log.Warn("Evidence receipt confirmation timed out, reporting pending",
				zap.String("txHash", ev.TxHash))
			return ev, nil
		}
		// 读回失败但写入已成功：同样按 pending 报告
		ev.Status = model.EvidencePending
		logger.Log.Warn("Evidence receipt lookup failed, reporting pending",
			zap.String("txHash", ev.TxHash),
			zap.Error(err))
		return ev, nil
	}

	return ev, nil
}

func (s *EvidenceService) GetByTxHash(ctx context.Context, txHash string) (*model.EvidenceRecord, error) {
	return s.Store.FindByTxHash(ctx, txHash)
}

func (s *EvidenceService) List(ctx context.Context, wallet string, limit int) ([]model.EvidenceRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ListByWallet(ctx, wallet, limit)
}

// deriveTxHash 确定性合成观测哈希，形态仿链上交易哈希
func deriveTxHash(wallet, questID, action, refKey string, at time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d", wallet, questID, action, refKey, at.UnixNano())))
	return "0x" + hex.EncodeToString(sum[:])
}
