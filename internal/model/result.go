package model

import "time"

type SectionScore struct {
	SectionID         string `json:"sectionId"`
	PointsEarned      int    `json:"pointsEarned"`
	PointsPossible    int    `json:"pointsPossible"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	QuestionCount     int    `json:"questionCount"`
	TimeSpent         int    `json:"timeSpent"`
}

type Certification struct {
	Issued        bool      `json:"issued"`
	CertificateID string    `json:"certificateId"`
	IssuedAt      time.Time `json:"issuedAt"`
	VerifyRef     string    `json:"verifyRef,omitempty"`
}

// AssessmentResult 一次完整测验的结果。通过时会追加第二条携带认证块的
// 记录，两条共享实体键，读取端取最新的一条。
// swagger:model
type AssessmentResult struct {
	Wallet        string         `json:"wallet"`
	QuestID       string         `json:"questId"`
	Sections      []SectionScore `json:"sections"`
	TotalScore    int            `json:"totalScore"`
	TotalPoints   int            `json:"totalPoints"`
	Percentage    int            `json:"percentage"`
	Passed        bool           `json:"passed"`
	AttemptNumber int            `json:"attemptNumber"`
	StartedAt     time.Time      `json:"startedAt"`
	CompletedAt   time.Time      `json:"completedAt"`
	Certification *Certification `json:"certification,omitempty"`
}

// ResultEntityKey 同一 (quest, wallet) 的所有结果记录共享实体键，
// 认证记录因此能在 most-recent-wins 读取中覆盖首条记录。
func ResultEntityKey(questID, wallet string) string {
	return "result:" + questID + ":" + wallet
}

// StoredResult 已上账的结果及其记录元数据
type StoredResult struct {
	AssessmentResult
	RecordID   string    `json:"recordId"`
	RecordedAt time.Time `json:"recordedAt"`
}
