package model

import "time"

const (
	NotificationCertIssued   = "cert_issued"
	NotificationQuestResult  = "quest_result"
	NotificationMentorReply  = "mentor_reply"
	NotificationSystemNotice = "system_notice"
)

// Notification 通知；已读/归档通过追加同实体键的新记录表达
// swagger:model
type Notification struct {
	NotificationID string    `json:"notificationId"`
	Wallet         string    `json:"wallet"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	Body           string    `json:"body,omitempty"`
	Read           bool      `json:"read"`
	Archived       bool      `json:"archived"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NotificationEntityKey(id string) string {
	return "notification:" + id
}
