package service

import (
	"sort"
	"strings"

	"arkiv_quests_backend/internal/model"
)

// ValidationResult 单题判分结果
type ValidationResult struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}

// ValidateAnswer 按题型判定提交答案。缺失答案一律判错不报错；
// 未知题型同样判错（创建时已拦截，这里兜底存量数据）。
func ValidateAnswer(q model.QuizQuestion, submitted model.AnswerValue) ValidationResult {
	if submitted.IsEmpty() {
		return ValidationResult{}
	}

	correct := false
	switch q.Type {
	case model.QuestionMultipleChoice:
		correct = validateMultipleChoice(q.Options, submitted.Single())
	case model.QuestionTrueFalse:
		// 与标准答案逐字比较，只接受 "true"/"false" 字面值
		value := submitted.Single()
		correct = (value == "true" || value == "false") && value == q.Answer.Single()
	case model.QuestionFillBlank:
		correct = normalizeBlank(submitted.Single()) == normalizeBlank(q.Answer.Single())
	case model.QuestionMatching:
		// 配对题不看顺序：排序后整体比较等价于多重集合相等
		correct = equalUnordered(submitted.Values, q.Answer.Values)
	case model.QuestionSentenceOrdering:
		// 排序题顺序就是答案
		correct = equalOrdered(submitted.Values, q.Answer.Values)
	}

	if !correct {
		return ValidationResult{}
	}
	return ValidationResult{Correct: true, Score: q.Points}
}

// validateMultipleChoice 正确当且仅当提交值命中唯一标记 correct 的选项
func validateMultipleChoice(options []model.QuestionOption, submitted string) bool {
	for _, opt := range options {
		if opt.Correct {
			return opt.Text == submitted
		}
	}
	return false
}

func normalizeBlank(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func equalOrdered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	copy(as, a)
	copy(bs, b)
	sort.Strings(as)
	sort.Strings(bs)
	return equalOrdered(as, bs)
}
