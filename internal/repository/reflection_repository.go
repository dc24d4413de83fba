package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type ReflectionRepository struct {
	Ledger *LedgerRepository
}

func NewReflectionRepository(ledger *LedgerRepository) *ReflectionRepository {
	return &ReflectionRepository{Ledger: ledger}
}

func (r *ReflectionRepository) AppendReflection(ctx context.Context, ref *model.Reflection) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeReflection,
		Wallet:    ref.Wallet,
		QuestID:   ref.QuestID,
		EntityKey: "reflection:" + ref.ReflectionID,
		Payload:   util.MustMarshal(ref),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ReflectionRepository) ListByWallet(ctx context.Context, wallet, questID string) ([]model.Reflection, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:    model.RecordTypeReflection,
		Wallet:  wallet,
		QuestID: questID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Reflection, 0, len(records))
	for _, rec := range records {
		var ref model.Reflection
		if !util.DecodePayload(rec.Payload, &ref) {
			continue
		}
		ref.CreatedAt = rec.CreatedAt
		out = append(out, ref)
	}
	return out, nil
}
