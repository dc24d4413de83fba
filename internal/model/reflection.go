package model

import "time"

// Reflection 学习反思日志，按钱包+测验追加
// swagger:model
type Reflection struct {
	ReflectionID  string    `json:"reflectionId"`
	Wallet        string    `json:"wallet"`
	QuestID       string    `json:"questId,omitempty"`
	Summary       string    `json:"summary"`
	Challenges    string    `json:"challenges,omitempty"`
	Connections   string    `json:"connections,omitempty"`
	NextSteps     string    `json:"nextSteps,omitempty"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
