package model

import "time"

// 导师帖类型：求助 / 提供辅导
const (
	PostKindAsk   = "ask"
	PostKindOffer = "offer"
)

type AvailabilitySlot struct {
	Day   string `json:"day"`   // monday..sunday
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// MentorPost 集市式辅导帖。编辑和归档都是追加同实体键的新记录，
// 列表读取端归并出当前状态后过滤已归档的帖子。
// swagger:model
type MentorPost struct {
	PostID       string             `json:"postId"`
	Wallet       string             `json:"wallet"`
	Kind         string             `json:"kind"`
	Title        string             `json:"title"`
	Body         string             `json:"body"`
	Topics       []string           `json:"topics,omitempty"`
	Availability []AvailabilitySlot `json:"availability,omitempty"`
	Contact      string             `json:"contact,omitempty"`
	Archived     bool               `json:"archived"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func MentorPostEntityKey(postID string) string {
	return "mentor_post:" + postID
}
