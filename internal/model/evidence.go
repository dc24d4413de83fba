package model

import "time"

// 证据记录状态。回执确认超时记为 pending：写入可能已经落账。
const (
	EvidenceConfirmed = "confirmed"
	EvidencePending   = "pending"
)

// EvidenceRecord 主写入旁路的链式观测记录，尽力而为，失败只记日志
// swagger:model
type EvidenceRecord struct {
	TxHash     string    `json:"txHash"`
	Wallet     string    `json:"wallet"`
	QuestID    string    `json:"questId,omitempty"`
	Action     string    `json:"action"`
	RefKey     string    `json:"refKey,omitempty"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recordedAt"`
}
