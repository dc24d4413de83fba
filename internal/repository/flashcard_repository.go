package repository

import (
	"context"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type FlashcardRepository struct {
	Ledger *LedgerRepository
}

func NewFlashcardRepository(ledger *LedgerRepository) *FlashcardRepository {
	return &FlashcardRepository{Ledger: ledger}
}

func (r *FlashcardRepository) AppendDeck(ctx context.Context, deck *model.FlashcardDeck) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeFlashcardDeck,
		Wallet:    deck.Wallet,
		QuestID:   deck.QuestID,
		EntityKey: model.DeckEntityKey(deck.DeckID),
		Payload:   util.MustMarshal(deck),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *FlashcardRepository) CurrentDeck(ctx context.Context, deckID string) (*model.FlashcardDeck, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:      model.RecordTypeFlashcardDeck,
		EntityKey: model.DeckEntityKey(deckID),
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrDeckNotFound
	}

	var deck model.FlashcardDeck
	if !util.DecodePayload(records[0].Payload, &deck) {
		return nil, util.ErrDeckNotFound
	}
	deck.CreatedAt = records[0].CreatedAt
	return &deck, nil
}

func (r *FlashcardRepository) ListDecks(ctx context.Context, wallet string) ([]model.FlashcardDeck, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:   model.RecordTypeFlashcardDeck,
		Wallet: wallet,
	})
	if err != nil {
		return nil, err
	}

	decks := make([]model.FlashcardDeck, 0)
	for _, rec := range CurrentRecords(records) {
		var deck model.FlashcardDeck
		if !util.DecodePayload(rec.Payload, &deck) {
			continue
		}
		deck.CreatedAt = rec.CreatedAt
		decks = append(decks, deck)
	}
	return decks, nil
}

func (r *FlashcardRepository) AppendReview(ctx context.Context, review model.FlashcardReview) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeFlashcardReview,
		Wallet:    review.Wallet,
		EntityKey: "review:" + review.DeckID + ":" + review.Wallet + ":" + review.CardID,
		Payload:   util.MustMarshal(review),
	}
	if err := r.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListReviews 一个卡组的全部复习历史
func (r *FlashcardRepository) ListReviews(ctx context.Context, wallet, deckID string) ([]model.FlashcardReview, error) {
	records, err := r.Ledger.QueryByAttributes(ctx, RecordQuery{
		Type:   model.RecordTypeFlashcardReview,
		Wallet: wallet,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.FlashcardReview, 0, len(records))
	for _, rec := range records {
		var review model.FlashcardReview
		if !util.DecodePayload(rec.Payload, &review) {
			continue
		}
		if review.DeckID != deckID {
			continue
		}
		if review.ReviewedAt.IsZero() {
			review.ReviewedAt = rec.CreatedAt
		}
		out = append(out, review)
	}
	return out, nil
}
