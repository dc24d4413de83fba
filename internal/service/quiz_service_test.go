package service

import (
	"context"
	"errors"
	"testing"

	"arkiv_quests_backend/internal/model"
)

type fakeQuizStore struct {
	submissions []*QuizSubmission
	err         error
}

func (f *fakeQuizStore) AppendQuizSubmission(ctx context.Context, sub *QuizSubmission) (*model.LedgerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.submissions = append(f.submissions, sub)
	return &model.LedgerRecord{ID: model.GenerateUUID()}, nil
}

func sampleRubric() QuizRubric {
	return QuizRubric{
		PassingScore: 6,
		Questions: []model.QuizQuestion{
			mcQuestion(5),
			{
				ID:     "q2",
				Type:   model.QuestionTrueFalse,
				Answer: model.SingleAnswer("true"),
				Points: 3,
			},
			{
				ID:       "q3",
				Type:     model.QuestionFillBlank,
				WordBank: []string{"merci"},
				Answer:   model.SingleAnswer("merci"),
				Points:   2,
			},
		},
	}
}

func TestScoreRubric(t *testing.T) {
	score := ScoreRubric(sampleRubric(), map[string]model.AnswerValue{
		"q1": model.SingleAnswer("Paris"), // 5分
		"q2": model.SingleAnswer("false"), // 错
		// q3 未作答
	})

	if score.Score != 5 || score.MaxScore != 10 {
		t.Fatalf("expected 5/10, got %d/%d", score.Score, score.MaxScore)
	}
	if score.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", score.Percentage)
	}
	if score.Passed {
		t.Fatalf("5 < 6 must not pass")
	}
}

func TestScoreRubricPassBoundary(t *testing.T) {
	score := ScoreRubric(sampleRubric(), map[string]model.AnswerValue{
		"q1": model.SingleAnswer("Oslo"),
		"q2": model.SingleAnswer("true"),
		"q3": model.SingleAnswer(" MERCI "),
	})

	if score.Score != 6 {
		t.Fatalf("expected 6, got %d", score.Score)
	}
	if !score.Passed {
		t.Fatalf("score equal to passing score must pass")
	}
}

func TestScoreRubricEmpty(t *testing.T) {
	score := ScoreRubric(QuizRubric{}, nil)
	if score.Score != 0 || score.MaxScore != 0 || score.Percentage != 0 {
		t.Fatalf("empty rubric must score zeros, got %+v", score)
	}
}

func TestQuizSubmitRecordsSubmission(t *testing.T) {
	store := &fakeQuizStore{}
	svc := NewQuizService(store)

	score, err := svc.Submit(context.Background(), "0xwallet", SubmitQuizRequest{
		QuestID: "quest-1",
		StepID:  "step-2",
		Answers: map[string]model.AnswerValue{"q1": model.SingleAnswer("Paris")},
		Rubric:  sampleRubric(),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if score.Score != 5 {
		t.Fatalf("expected 5, got %d", score.Score)
	}

	if len(store.submissions) != 1 {
		t.Fatalf("expected one stored submission, got %d", len(store.submissions))
	}
	sub := store.submissions[0]
	if sub.Wallet != "0xwallet" || sub.QuestID != "quest-1" || sub.StepID != "step-2" || sub.Score != 5 {
		t.Fatalf("submission payload mismatch: %+v", sub)
	}
}

func TestQuizSubmitStoreFailurePropagates(t *testing.T) {
	svc := NewQuizService(&fakeQuizStore{err: errors.New("too many connections")})

	_, err := svc.Submit(context.Background(), "0xwallet", SubmitQuizRequest{
		QuestID: "quest-1",
		Rubric:  sampleRubric(),
	})
	if err == nil {
		t.Fatalf("store failure must propagate")
	}
}
