package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type MentorPostRepository struct {
	Ledger *LedgerRepository
}

func NewMentorPostRepository(ledger *LedgerRepository) *MentorPostRepository {
	return &MentorPostRepository{Ledger: ledger}
}

// AppendPost 创建、编辑、归档走同一条路：追加同实体键的新记录
func (r *MentorPostRepository) AppendPost(ctx context.Context, post *model.MentorPost) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeMentorPost,
		Wallet:    post.Wallet,
		EntityKey: model.MentorPostEntityKey(post.PostID),
		Payload:   util.MustMarshal(post),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *MentorPostRepository) CurrentPost(ctx context.Context, postID string) (*model.MentorPost, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:      model.RecordTypeMentorPost,
		EntityKey: model.MentorPostEntityKey(postID),
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrPostNotFound
	}

	var post model.MentorPost
	if !util.DecodePayload(records[0].Payload, &post) {
		return nil, util.ErrPostNotFound
	}
	post.UpdatedAt = records[0].CreatedAt
	return &post, nil
}

// ListCurrent 列表读取端归并当前状态后过滤已归档帖子
func (r *MentorPostRepository) ListCurrent(ctx context.Context, kind string) ([]model.MentorPost, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{Type: model.RecordTypeMentorPost})
	if err != nil {
		return nil, err
	}

	posts := make([]model.MentorPost, 0)
	for _, rec := range CurrentRecords(records) {
		var post model.MentorPost
		if !util.DecodePayload(rec.Payload, &post) {
			continue
		}
		if post.Archived {
			continue
		}
		if kind != "" && post.Kind != kind {
			continue
		}
		post.UpdatedAt = rec.CreatedAt
		posts = append(posts, post)
	}
	return posts, nil
}
