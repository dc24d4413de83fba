package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

type ResultRepository struct {
	Ledger *LedgerRepository
}

func NewResultRepository(ledger *LedgerRepository) *ResultRepository {
	return &ResultRepository{Ledger: ledger}
}

// AppendResult 结果记录不可变；通过的第二条认证记录用同一实体键追加，
// 读取端 most-recent-wins 后它就是"当前结果"
func (r *ResultRepository) AppendResult(ctx context.Context, res *model.AssessmentResult) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeResult,
		Wallet:    res.Wallet,
		QuestID:   res.QuestID,
		EntityKey: model.ResultEntityKey(res.QuestID, res.Wallet),
		Payload:   util.MustMarshal(res),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByWalletAndQuest 全部历史结果记录，最新在前
func (r *ResultRepository) ListByWalletAndQuest(ctx context.Context, wallet, questID string) ([]model.StoredResult, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:    model.RecordTypeResult,
		Wallet:  wallet,
		QuestID: questID,
	})
	if err != nil {
		return nil, err
	}

	SortByCreatedDesc(records)
	out := make([]model.StoredResult, 0, len(records))
	for _, rec := range records {
		var res model.AssessmentResult
		if !util.DecodePayload(rec.Payload, &res) {
			logger.Log.Warn("Skipping malformed result record", zap.String("recordId", rec.ID))
			continue
		}
		out = append(out, model.StoredResult{
			AssessmentResult: res,
			RecordID:         rec.ID,
			RecordedAt:       rec.CreatedAt,
		})
	}
	return out, nil
}
