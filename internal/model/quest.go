package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// 题目类型
const (
	QuestionMultipleChoice   = "multiple_choice"
	QuestionTrueFalse        = "true_false"
	QuestionFillBlank        = "fill_blank"
	QuestionMatching         = "matching"
	QuestionSentenceOrdering = "sentence_ordering"
)

// AnswerValue 提交或标准答案：单个字符串或字符串列表。
// 空值（缺失/null）解析为零值，判分时一律记为错误而不报错。
type AnswerValue struct {
	Values []string
	IsList bool
}

func SingleAnswer(v string) AnswerValue {
	return AnswerValue{Values: []string{v}}
}

func ListAnswer(vs ...string) AnswerValue {
	return AnswerValue{Values: vs, IsList: true}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*a = AnswerValue{}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*a = AnswerValue{Values: []string{s}}
		return nil
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*a = AnswerValue{Values: list, IsList: true}
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.IsList {
		return json.Marshal(a.Values)
	}
	return json.Marshal(a.Single())
}

// Single 返回首个值，列表或空值场景返回空串
func (a AnswerValue) Single() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

func (a AnswerValue) IsEmpty() bool {
	return len(a.Values) == 0
}

type QuestionOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// QuizQuestion 题目定义；类型相关内容只填对应字段
// swagger:model
type QuizQuestion struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Prompt      string           `json:"prompt"`
	Options     []QuestionOption `json:"options,omitempty"`
	WordBank    []string         `json:"wordBank,omitempty"`
	Pairs       []MatchPair      `json:"pairs,omitempty"`
	Sentences   []string         `json:"sentences,omitempty"`
	Answer      AnswerValue      `json:"answer"`
	Points      int              `json:"points"`
	Explanation string           `json:"explanation,omitempty"`
}

// QuestSection 小节，Points 必须等于题目分值之和（创建时校验）
type QuestSection struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Points    int            `json:"points"`
	Questions []QuizQuestion `json:"questions"`
}

type QuestMetadata struct {
	TotalQuestions int `json:"totalQuestions"`
	TotalPoints    int `json:"totalPoints"`
	PassingScore   int `json:"passingScore"` // 及格线，单位是分数（不是百分比）
	TimeLimit      int `json:"timeLimit"`    // Minutes
}

// Quest 不可变的版本化测验定义。重新发布即追加新记录，
// 当前版本 = 同一 questId 下最近创建的 active 记录。
// swagger:model
type Quest struct {
	QuestID     string         `json:"questId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language"`
	Level       string         `json:"level"`
	Active      bool           `json:"active"`
	Sections    []QuestSection `json:"sections"`
	Metadata    QuestMetadata  `json:"metadata"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// QuestEntityKey 同一测验所有版本共享的实体键
func QuestEntityKey(questID string) string {
	return "quest:" + questID
}

// FindQuestion 按小节+题目ID 定位题目定义
func (q *Quest) FindQuestion(sectionID, questionID string) *QuizQuestion {
	for si := range q.Sections {
		if q.Sections[si].ID != sectionID {
			continue
		}
		for qi := range q.Sections[si].Questions {
			if q.Sections[si].Questions[qi].ID == questionID {
				return &q.Sections[si].Questions[qi]
			}
		}
	}
	return nil
}
