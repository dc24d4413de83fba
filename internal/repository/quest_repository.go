package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

type QuestRepository struct {
	Ledger *LedgerRepository
}

func NewQuestRepository(ledger *LedgerRepository) *QuestRepository {
	return &QuestRepository{Ledger: ledger}
}

// AppendQuest 发布一个版本。同一 questId 的所有版本共享实体键，
// 当前版本由读取端解析。
func (r *QuestRepository) AppendQuest(ctx context.Context, quest *model.Quest) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeQuest,
		Wallet:    quest.CreatedBy,
		QuestID:   quest.QuestID,
		EntityKey: model.QuestEntityKey(quest.QuestID),
		Payload:   util.MustMarshal(quest),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CurrentByQuestID 当前版本 = 最近创建的 active 版本
func (r *QuestRepository) CurrentByQuestID(ctx context.Context, questID string) (*model.Quest, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:    model.RecordTypeQuest,
		QuestID: questID,
	})
	if err != nil {
		return nil, err
	}

	SortByCreatedDesc(records)
	for _, rec := range records {
		var quest model.Quest
		if !util.DecodePayload(rec.Payload, &quest) {
			logger.Log.Warn("Skipping malformed quest record", zap.String("recordId", rec.ID))
			continue
		}
		if quest.Active {
			quest.CreatedAt = rec.CreatedAt
			return &quest, nil
		}
	}
	return nil, util.ErrQuestNotFound
}

// ListVersions 一个测验的全部历史版本，最新在前
func (r *QuestRepository) ListVersions(ctx context.Context, questID string) ([]model.Quest, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:    model.RecordTypeQuest,
		QuestID: questID,
	})
	if err != nil {
		return nil, err
	}

	SortByCreatedDesc(records)
	versions := make([]model.Quest, 0, len(records))
	for _, rec := range records {
		var quest model.Quest
		if !util.DecodePayload(rec.Payload, &quest) {
			continue
		}
		quest.CreatedAt = rec.CreatedAt
		versions = append(versions, quest)
	}
	return versions, nil
}

// ListCurrent 所有测验的当前版本
func (r *QuestRepository) ListCurrent(ctx context.Context) ([]model.Quest, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{Type: model.RecordTypeQuest})
	if err != nil {
		return nil, err
	}

	// 当前版本是每个测验最近的 active 版本，不能直接用 ResolveCurrent：
	// 最新版本可能是下架记录，此时要继续回退到更早的 active 版本
	SortByCreatedDesc(records)
	seen := make(map[string]bool)
	quests := make([]model.Quest, 0)
	for _, rec := range records {
		if seen[rec.EntityKey] {
			continue
		}
		var quest model.Quest
		if !util.DecodePayload(rec.Payload, &quest) {
			continue
		}
		if !quest.Active {
			continue
		}
		seen[rec.EntityKey] = true
		quest.CreatedAt = rec.CreatedAt
		quests = append(quests, quest)
	}
	return quests, nil
}
