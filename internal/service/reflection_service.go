package service

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type ReflectionStore interface {
	AppendReflection(ctx context.Context, ref *model.Reflection) (*model.LedgerRecord, error)
	ListByWallet(ctx context.Context, wallet, questID string) ([]model.Reflection, error)
}

type ReflectionService struct {
	Store ReflectionStore
}

func NewReflectionService(store ReflectionStore) *ReflectionService {
	return &ReflectionService{Store: store}
}

type ReflectionRequest struct {
	QuestID       string `json:"questId"`
	Summary       string `json:"summary" binding:"required"`
	Challenges    string `json:"challenges"`
	Connections   string `json:"connections"`
	NextSteps     string `json:"nextSteps"`
	AttachmentURL string `json:"attachmentUrl"`
}

func (s *ReflectionService) Create(ctx context.Context, wallet string, req ReflectionRequest) (*model.Reflection, error) {
	if req.Summary == "" {
		return nil, &util.ValidationError{Problems: []string{"summary is required"}}
	}

	ref := &model.Reflection{
		ReflectionID:  model.GenerateUUID(),
		Wallet:        wallet,
		QuestID:       req.QuestID,
		Summary:       req.Summary,
		Challenges:    req.Challenges,
		Connections:   req.Connections,
		NextSteps:     req.NextSteps,
		AttachmentURL: req.AttachmentURL,
	}

	rec, err := s.Store.AppendReflection(ctx, ref)
	if err != nil {
		return nil, err
	}
	ref.CreatedAt = rec.CreatedAt
	return ref, nil
}

func (s *ReflectionService) List(ctx context.Context, wallet, questID string) ([]model.Reflection, error) {
	return s.Store.ListByWallet(ctx, wallet, questID)
}
