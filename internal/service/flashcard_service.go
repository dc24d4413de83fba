package service

import (
	"context"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

// FlashcardStore 卡组与复习记录的账本读写
type FlashcardStore interface {
	AppendDeck(ctx context.Context, deck *model.FlashcardDeck) (*model.LedgerRecord, error)
	CurrentDeck(ctx context.Context, deckID string) (*model.FlashcardDeck, error)
	ListDecks(ctx context.Context, wallet string) ([]model.FlashcardDeck, error)
	AppendReview(ctx context.Context, review model.FlashcardReview) (*model.LedgerRecord, error)
	ListReviews(ctx context.Context, wallet, deckID string) ([]model.FlashcardReview, error)
}

type FlashcardService struct {
	Store FlashcardStore
}

func NewFlashcardService(store FlashcardStore) *FlashcardService {
	return &FlashcardService{Store: store}
}

type DeckRequest struct {
	DeckID  string            `json:"deckId"`
	QuestID string            `json:"questId"`
	Title   string            `json:"title" binding:"required"`
	Cards   []model.Flashcard `json:"cards" binding:"required"`
}

// CreateDeck 新建或编辑卡组（同 deckId 即追加新版本）
func (s *FlashcardService) CreateDeck(ctx context.Context, wallet string, req DeckRequest) (*model.FlashcardDeck, error) {
	var problems []string
	if len(req.Cards) == 0 {
		problems = append(problems, "deck must have at least one card")
	}
	for i, card := range req.Cards {
		if card.ID == "" {
			req.Cards[i].ID = model.GenerateUUID()
		}
		if card.Front == "" || card.Back == "" {
			problems = append(problems, "card front and back are required")
		}
	}
	if len(problems) > 0 {
		return nil, &util.ValidationError{Problems: problems}
	}

	deck := &model.FlashcardDeck{
		DeckID:  req.DeckID,
		QuestID: req.QuestID,
		Wallet:  wallet,
		Title:   req.Title,
		Cards:   req.Cards,
	}
	if deck.DeckID == "" {
		deck.DeckID = model.GenerateUUID()
	}

	rec, err := s.Store.AppendDeck(ctx, deck)
	if err != nil {
		return nil, err
	}
	deck.CreatedAt = rec.CreatedAt
	return deck, nil
}

func (s *FlashcardService) GetDeck(ctx context.Context, deckID string) (*model.FlashcardDeck, error) {
	return s.Store.CurrentDeck(ctx, deckID)
}

func (s *FlashcardService) ListDecks(ctx context.Context, wallet string) ([]model.FlashcardDeck, error) {
	return s.Store.ListDecks(ctx, wallet)
}

type ReviewRequest struct {
	DeckID    string `json:"deckId" binding:"required"`
	CardID    string `json:"cardId" binding:"required"`
	Rating    string `json:"rating" binding:"required"`
	TimeSpent int    `json:"timeSpent"`
}

// SubmitReview 追加一次复习事件
func (s *FlashcardService) SubmitReview(ctx context.Context, wallet string, req ReviewRequest) (*model.FlashcardReview, error) {
	switch req.Rating {
	case model.ReviewAgain, model.ReviewHard, model.ReviewGood, model.ReviewEasy:
	default:
		return nil, util.ErrInvalidRating
	}

	deck, err := s.Store.CurrentDeck(ctx, req.DeckID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, card := range deck.Cards {
		if card.ID == req.CardID {
			found = true
			break
		}
	}
	if !found {
		return nil, util.ErrCardNotFound
	}

	review := model.FlashcardReview{
		Wallet:     wallet,
		DeckID:     req.DeckID,
		CardID:     req.CardID,
		Rating:     req.Rating,
		TimeSpent:  req.TimeSpent,
		ReviewedAt: time.Now(),
	}
	if _, err := s.Store.AppendReview(ctx, review); err != nil {
		return nil, err
	}
	return &review, nil
}

// CardMastery 每张卡按最近一次复习归并出的掌握度
type CardMastery struct {
	CardID      string    `json:"cardId"`
	Rating      string    `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	LastReview  time.Time `json:"lastReview"`
}

// Mastery 复习历史 most-recent-wins 归并，与答题进度同一套规则
func (s *FlashcardService) Mastery(ctx context.Context, wallet, deckID string) (map[string]CardMastery, error) {
	reviews, err := s.Store.ListReviews(ctx, wallet, deckID)
	if err != nil {
		return map[string]CardMastery{}, nil
	}

	mastery := make(map[string]CardMastery)
	for _, review := range reviews {
		entry, seen := mastery[review.CardID]
		entry.CardID = review.CardID
		entry.ReviewCount++
		if !seen || review.ReviewedAt.After(entry.LastReview) {
			entry.Rating = review.Rating
			entry.LastReview = review.ReviewedAt
		}
		mastery[review.CardID] = entry
	}
	return mastery, nil
}
