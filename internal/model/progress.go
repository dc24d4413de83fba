package model

import "time"

// ProgressRecord 单次答题事件的载荷，追加式，同一题可存在多条（重做）。
// swagger:model
type ProgressRecord struct {
	Wallet      string      `json:"wallet"`
	QuestID     string      `json:"questId"`
	SectionID   string      `json:"sectionId"`
	QuestionID  string      `json:"questionId"`
	Answer      AnswerValue `json:"answer"`
	Correct     bool        `json:"correct"`
	Score       int         `json:"score"`
	TimeSpent   int         `json:"timeSpent"` // 秒
	SubmittedAt time.Time   `json:"submittedAt"`
}

// Key 归并用复合键
func (p ProgressRecord) Key() string {
	return p.SectionID + ":" + p.QuestionID
}
