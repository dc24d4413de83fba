package model

import "time"

type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint,omitempty"`
}

// FlashcardDeck 卡组定义，编辑即追加同实体键的新版本
// swagger:model
type FlashcardDeck struct {
	DeckID    string      `json:"deckId"`
	QuestID   string      `json:"questId,omitempty"`
	Wallet    string      `json:"wallet"`
	Title     string      `json:"title"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"createdAt"`
}

func DeckEntityKey(deckID string) string {
	return "deck:" + deckID
}

// 复习评级
const (
	ReviewAgain = "again"
	ReviewHard  = "hard"
	ReviewGood  = "good"
	ReviewEasy  = "easy"
)

// FlashcardReview 单次复习事件；每张卡的当前掌握度取最近一条
type FlashcardReview struct {
	Wallet     string    `json:"wallet"`
	DeckID     string    `json:"deckId"`
	CardID     string    `json:"cardId"`
	Rating     string    `json:"rating"`
	TimeSpent  int       `json:"timeSpent"`
	ReviewedAt time.Time `json:"reviewedAt"`
}
