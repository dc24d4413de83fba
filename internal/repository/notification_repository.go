package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type NotificationRepository struct {
	Ledger *LedgerRepository
}

func NewNotificationRepository(ledger *LedgerRepository) *NotificationRepository {
	return &NotificationRepository{Ledger: ledger}
}

func (r *NotificationRepository) AppendNotification(ctx context.Context, n *model.Notification) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeNotification,
		Wallet:    n.Wallet,
		EntityKey: model.NotificationEntityKey(n.NotificationID),
		Payload:   util.MustMarshal(n),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *NotificationRepository) CurrentByID(ctx context.Context, id string) (*model.Notification, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:      model.RecordTypeNotification,
		EntityKey: model.NotificationEntityKey(id),
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrNotifyNotFound
	}

	var n model.Notification
	if !util.DecodePayload(records[0].Payload, &n) {
		return nil, util.ErrNotifyNotFound
	}
	return &n, nil
}

// ListCurrent 每条通知的当前状态（已读标志取最新记录）
func (r *NotificationRepository) ListCurrent(ctx context.Context, wallet string) ([]model.Notification, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:   model.RecordTypeNotification,
		Wallet: wallet,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Notification, 0)
	for _, rec := range CurrentRecords(records) {
		var n model.Notification
		if !util.DecodePayload(rec.Payload, &n) {
			continue
		}
		if n.Archived {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
