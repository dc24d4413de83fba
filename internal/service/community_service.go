package service

import (
	"context"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type MentorPostStore interface {
	AppendPost(ctx context.Context, post *model.MentorPost) (*model.LedgerRecord, error)
	CurrentPost(ctx context.Context, postID string) (*model.MentorPost, error)
	ListCurrent(ctx context.Context, kind string) ([]model.MentorPost, error)
}

// CommunityService 集市式辅导帖（求助/提供）。账本上没有原地更新，
// 编辑和归档都追加同实体键的新记录。
type CommunityService struct {
	Store MentorPostStore
}

func NewCommunityService(store MentorPostStore) *CommunityService {
	return &CommunityService{Store: store}
}

type MentorPostRequest struct {
	Kind         string                   `json:"kind" binding:"required"`
	Title        string                   `json:"title" binding:"required"`
	Body         string                   `json:"body" binding:"required"`
	Topics       []string                 `json:"topics"`
	Availability []model.AvailabilitySlot `json:"availability"`
	Contact      string                   `json:"contact"`
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func validatePost(req MentorPostRequest) []string {
	var problems []string
	if req.Kind != model.PostKindAsk && req.Kind != model.PostKindOffer {
		problems = append(problems, `kind must be "ask" or "offer"`)
	}
	for _, slot := range req.Availability {
		if !weekdays[slot.Day] {
			problems = append(problems, "availability day must be a lowercase weekday name")
		}
		if _, err := time.Parse("15:04", slot.Start); err != nil {
			problems = append(problems, "availability start must be HH:MM")
		}
		if _, err := time.Parse("15:04", slot.End); err != nil {
			problems = append(problems, "availability end must be HH:MM")
		}
	}
	return problems
}

func (s *CommunityService) CreatePost(ctx context.Context, wallet string, req MentorPostRequest) (*model.MentorPost, error) {
	if problems := validatePost(req); len(problems) > 0 {
		return nil, &util.ValidationError{Problems: problems}
	}

	post := &model.MentorPost{
		PostID:       model.GenerateUUID(),
		Wallet:       wallet,
		Kind:         req.Kind,
		Title:        req.Title,
		Body:         req.Body,
		Topics:       req.Topics,
		Availability: req.Availability,
		Contact:      req.Contact,
		CreatedAt:    time.Now(),
	}
	rec, err := s.Store.AppendPost(ctx, post)
	if err != nil {
		return nil, err
	}
	post.UpdatedAt = rec.CreatedAt
	return post, nil
}

// UpdatePost 追加覆盖当前状态的新记录；只有帖主可以编辑
func (s *CommunityService) UpdatePost(ctx context.Context, wallet, postID string, req MentorPostRequest) (*model.MentorPost, error) {
	current, err := s.Store.CurrentPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if current.Wallet != wallet {
		return nil, util.ErrPermissionDenied
	}
	if problems := validatePost(req); len(problems) > 0 {
		return nil, &util.ValidationError{Problems: problems}
	}

	updated := &model.MentorPost{
		PostID:       postID,
		Wallet:       wallet,
		Kind:         req.Kind,
		Title:        req.Title,
		Body:         req.Body,
		Topics:       req.Topics,
		Availability: req.Availability,
		Contact:      req.Contact,
		Archived:     current.Archived,
		CreatedAt:    current.CreatedAt,
	}
	rec, err := s.Store.AppendPost(ctx, updated)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = rec.CreatedAt
	return updated, nil
}

// Archive 软删除：追加 archived 标志的新记录，列表读取端会过滤掉
func (s *CommunityService) Archive(ctx context.Context, wallet, postID string) error {
	current, err := s.Store.CurrentPost(ctx, postID)
	if err != nil {
		return err
	}
	if current.Wallet != wallet {
		return util.ErrPermissionDenied
	}
	if current.Archived {
		return nil
	}

	archived := *current
	archived.Archived = true
	_, err = s.Store.AppendPost(ctx, &archived)
	return err
}

func (s *CommunityService) GetPost(ctx context.Context, postID string) (*model.MentorPost, error) {
	return s.Store.CurrentPost(ctx, postID)
}

func (s *CommunityService) ListPosts(ctx context.Context, kind, topic string) ([]model.MentorPost, error) {
	posts, err := s.Store.ListCurrent(ctx, kind)
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return posts, nil
	}

	filtered := make([]model.MentorPost, 0, len(posts))
	for _, post := range posts {
		if contains(post.Topics, topic) {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}
