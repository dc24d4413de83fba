package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 账本记录类型判别值
const (
	RecordTypeQuest           = "quest"
	RecordTypeProgress        = "quiz_progress"
	RecordTypeResult          = "assessment_result"
	RecordTypeQuizSubmission  = "quiz_submission"
	RecordTypeFlashcardDeck   = "flashcard_deck"
	RecordTypeFlashcardReview = "flashcard_review"
	RecordTypeReflection      = "reflection"
	RecordTypeMentorPost      = "mentor_post"
	RecordTypeNotification    = "notification"
	RecordTypeEvidence        = "evidence"
)

// LedgerRecord 追加式账本记录。该表从不 UPDATE / DELETE：
// 软状态（已读、归档、编辑）都是追加携带新标志的记录，
// 读取端按 EntityKey 取最新时间戳的记录作为当前状态。
// swagger:model
type LedgerRecord struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	// Seq 数据库分配的单调插入序号。created_at 只存毫秒精度，
	// 同一请求内的两次追加常落在同一时间戳，先后由 Seq 决出。
	Seq        uint64          `gorm:"autoIncrement;uniqueIndex" json:"-"`
	Type       string          `gorm:"index:idx_type_wallet,priority:1;size:40;not null" json:"type"`
	Wallet     string          `gorm:"index:idx_type_wallet,priority:2;size:64" json:"wallet"`
	QuestID    string          `gorm:"index;size:64" json:"questId"`
	SectionID  string          `gorm:"size:64" json:"sectionId"`
	QuestionID string          `gorm:"size:64" json:"questionId"`
	EntityKey  string          `gorm:"index;size:191" json:"entityKey"`
	Payload    json.RawMessage `gorm:"type:json" json:"payload"`
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`
}

func (LedgerRecord) TableName() string {
	return "ledger_records"
}

func (r *LedgerRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
