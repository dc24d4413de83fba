package service

import (
	"context"
	"math"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

// QuizStore 内联 rubric 测验提交的落账
type QuizStore interface {
	AppendQuizSubmission(ctx context.Context, sub *QuizSubmission) (*model.LedgerRecord, error)
}

// QuizService 自带 rubric 的轻量测验路径：不查存储的测验定义，
// 直接按请求里的题目判分，判分规则与整卷路径完全一致。
type QuizService struct {
	Store QuizStore
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{Store: store}
}

type QuizRubric struct {
	Questions    []model.QuizQuestion `json:"questions" binding:"required"`
	PassingScore int                  `json:"passingScore"` // 分数阈值，与整卷路径同一口径
}

type SubmitQuizRequest struct {
	QuestID string                       `json:"questId" binding:"required"`
	StepID  string                       `json:"stepId"`
	Answers map[string]model.AnswerValue `json:"answers"`
	Rubric  QuizRubric                   `json:"rubric" binding:"required"`
}

type QuizScore struct {
	Score      int  `json:"score"`
	MaxScore   int  `json:"maxScore"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// QuizSubmission 落账载荷
type QuizSubmission struct {
	Wallet      string    `json:"wallet"`
	QuestID     string    `json:"questId"`
	StepID      string    `json:"stepId,omitempty"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"maxScore"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Submit 对照内联 rubric 判分并落账
func (s *QuizService) Submit(ctx context.Context, wallet string, req SubmitQuizRequest) (*QuizScore, error) {
	score := ScoreRubric(req.Rubric, req.Answers)

	_, err := s.Store.AppendQuizSubmission(ctx, &QuizSubmission{
		Wallet:      wallet,
		QuestID:     req.QuestID,
		StepID:      req.StepID,
		Score:       score.Score,
		MaxScore:    score.MaxScore,
		Percentage:  score.Percentage,
		Passed:      score.Passed,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// ScoreRubric 逐题套用与 ValidateAnswer 相同的判分规则。
// 没答的题按缺失处理（判错不报错）。
func ScoreRubric(rubric QuizRubric, answers map[string]model.AnswerValue) *QuizScore {
	score := &QuizScore{}
	for _, q := range rubric.Questions {
		score.MaxScore += q.Points
		result := ValidateAnswer(q, answers[q.ID])
		score.Score += result.Score
	}
	if score.MaxScore > 0 {
		score.Percentage = int(math.Round(float64(score.Score) / float64(score.MaxScore) * 100))
	}
	score.Passed = score.Score >= rubric.PassingScore
	return score
}

// QuizLedgerStore QuizStore 的账本实现
type QuizLedgerStore struct {
	Ledger LedgerAppender
}

// LedgerAppender 账本追加入口
type LedgerAppender interface {
	Append(ctx context.Context, rec *model.LedgerRecord) error
}

func NewQuizLedgerStore(ledger LedgerAppender) *QuizLedgerStore {
	return &QuizLedgerStore{Ledger: ledger}
}

func (s *QuizLedgerStore) AppendQuizSubmission(ctx context.Context, sub *QuizSubmission) (*model.LedgerRecord, error) {
	rec := &model.LedgerRecord{
		Type:      model.RecordTypeQuizSubmission,
		Wallet:    sub.Wallet,
		QuestID:   sub.QuestID,
		EntityKey: "quiz:" + sub.QuestID + ":" + sub.StepID + ":" + sub.Wallet,
		Payload:   util.MustMarshal(sub),
	}
	if err := s.Ledger.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
