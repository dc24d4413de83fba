package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

type ProgressRepository struct {
	Ledger *LedgerRepository
}

func NewProgressRepository(ledger *LedgerRepository) *ProgressRepository {
	return &ProgressRepository{Ledger: ledger}
}

// AppendSubmission 每次答题追加一条记录；同一题重做会产生多条，
// 归并交给读取端
func (r *ProgressRepository) AppendSubmission(ctx context.Context, p model.ProgressRecord) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:       model.RecordTypeProgress,
		Wallet:     p.Wallet,
		QuestID:    p.QuestID,
		SectionID:  p.SectionID,
		QuestionID: p.QuestionID,
		EntityKey:  "progress:" + p.QuestID + ":" + p.Wallet + ":" + p.Key(),
		Payload:    util.MustMarshal(p),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByWalletAndQuest 取全部答题历史；坏载荷跳过并记日志
func (r *ProgressRepository) ListByWalletAndQuest(ctx context.Context, wallet, questID string) ([]model.ProgressRecord, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:    model.RecordTypeProgress,
		Wallet:  wallet,
		QuestID: questID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.ProgressRecord, 0, len(records))
	for _, rec := range records {
		var p model.ProgressRecord
		if !util.DecodePayload(rec.Payload, &p) {
			logger.Log.Warn("Skipping malformed progress record", zap.String("recordId", rec.ID))
			continue
		}
		if p.SubmittedAt.IsZero() {
			p.SubmittedAt = rec.CreatedAt
		}
		out = append(out, p)
	}
	return out, nil
}
