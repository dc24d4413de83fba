package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"

	"gorm.io/gorm"
)

type EvidenceRepository struct {
	Ledger *LedgerRepository
}

func NewEvidenceRepository(ledger *LedgerRepository) *EvidenceRepository {
	return &EvidenceRepository{Ledger: ledger}
}

func (r *EvidenceRepository) AppendEvidence(ctx context.Context, ev *model.EvidenceRecord) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeEvidence,
		Wallet:    ev.Wallet,
		QuestID:   ev.QuestID,
		EntityKey: "evidence:" + ev.TxHash,
		Payload:   util.MustMarshal(ev),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *EvidenceRepository) FindByTxHash(ctx context.Context, txHash string) (*model.EvidenceRecord, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:      model.RecordTypeEvidence,
		EntityKey: "evidence:" + txHash,
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var ev model.EvidenceRecord
	if !util.DecodePayload(records[0].Payload, &ev) {
		return nil, gorm.ErrRecordNotFound
	}
	ev.RecordedAt = records[0].CreatedAt
	return &ev, nil
}

func (r *EvidenceRepository) ListByWallet(ctx context.Context, wallet string, limit int) ([]model.EvidenceRecord, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:   model.RecordTypeEvidence,
		Wallet: wallet,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.EvidenceRecord, 0, len(records))
	for _, rec := range records {
		var ev model.EvidenceRecord
		if !util.DecodePayload(rec.Payload, &ev) {
			continue
		}
		ev.RecordedAt = rec.CreatedAt
		out = append(out, ev)
	}
	return out, nil
}
