package service

import (
	"testing"

	"arkiv_quests_backend/internal/model"
)

func mcQuestion(points int) model.QuizQuestion {
	return model.QuizQuestion{
		ID:   "q1",
		Type: model.QuestionMultipleChoice,
		Options: []model.QuestionOption{
			{Text: "Oslo"},
			{Text: "Paris", Correct: true},
			{Text: "Rome"},
		},
		Points: points,
	}
}

func TestValidateMultipleChoice(t *testing.T) {
	q := mcQuestion(5)

	result := ValidateAnswer(q, model.SingleAnswer("Paris"))
	if !result.Correct || result.Score != 5 {
		t.Fatalf("expected correct with score 5, got correct=%v score=%d", result.Correct, result.Score)
	}

	result = ValidateAnswer(q, model.SingleAnswer("Oslo"))
	if result.Correct || result.Score != 0 {
		t.Fatalf("wrong option must score 0, got correct=%v score=%d", result.Correct, result.Score)
	}
}

func TestValidateTrueFalseLiteralOnly(t *testing.T) {
	q := model.QuizQuestion{
		ID:     "q1",
		Type:   model.QuestionTrueFalse,
		Answer: model.SingleAnswer("true"),
		Points: 2,
	}

	cases := []struct {
		submitted string
		correct   bool
	}{
		{"true", true},
		{"false", false},
		{"True", false},
		{"TRUE", false},
		{"yes", false},
	}
	for _, tc := range cases {
		result := ValidateAnswer(q, model.SingleAnswer(tc.submitted))
		if result.Correct != tc.correct {
			t.Errorf("submitted %q: expected correct=%v, got %v", tc.submitted, tc.correct, result.Correct)
		}
	}
}

func TestValidateFillBlankNormalizes(t *testing.T) {
	q := model.QuizQuestion{
		ID:       "q1",
		Type:     model.QuestionFillBlank,
		WordBank: []string{"Paris", "Rome"},
		Answer:   model.SingleAnswer("Paris"),
		Points:   3,
	}

	result := ValidateAnswer(q, model.SingleAnswer("  paris "))
	if !result.Correct {
		t.Fatalf("fill-blank must trim and lowercase before comparing")
	}

	result = ValidateAnswer(q, model.SingleAnswer("rome"))
	if result.Correct {
		t.Fatalf("wrong word must be incorrect")
	}
}

func TestValidateMatchingIgnoresOrder(t *testing.T) {
	q := model.QuizQuestion{
		ID:     "q1",
		Type:   model.QuestionMatching,
		Pairs:  []model.MatchPair{{Left: "cat", Right: "chat"}, {Left: "dog", Right: "chien"}},
		Answer: model.ListAnswer("cat:chat", "dog:chien"),
		Points: 4,
	}

	result := ValidateAnswer(q, model.ListAnswer("dog:chien", "cat:chat"))
	if !result.Correct {
		t.Fatalf("matching is order independent, reversed pairs must be correct")
	}

	result = ValidateAnswer(q, model.ListAnswer("dog:chat", "cat:chien"))
	if result.Correct {
		t.Fatalf("swapped pairings must be incorrect")
	}

	result = ValidateAnswer(q, model.ListAnswer("cat:chat"))
	if result.Correct {
		t.Fatalf("missing pair must be incorrect")
	}
}

func TestValidateSentenceOrderingExact(t *testing.T) {
	q := model.QuizQuestion{
		ID:        "q1",
		Type:      model.QuestionSentenceOrdering,
		Sentences: []string{"A", "B", "C"},
		Answer:    model.ListAnswer("A", "B", "C"),
		Points:    3,
	}

	if result := ValidateAnswer(q, model.ListAnswer("A", "B", "C")); !result.Correct {
		t.Fatalf("exact order must be correct")
	}
	if result := ValidateAnswer(q, model.ListAnswer("B", "A", "C")); result.Correct {
		t.Fatalf("different order must be incorrect")
	}
}

func TestValidateMissingAnswer(t *testing.T) {
	q := mcQuestion(5)

	result := ValidateAnswer(q, model.AnswerValue{})
	if result.Correct || result.Score != 0 {
		t.Fatalf("missing answer must be incorrect with zero score, got %+v", result)
	}
}

func TestValidateUnknownType(t *testing.T) {
	q := model.QuizQuestion{ID: "q1", Type: "essay", Points: 10}

	result := ValidateAnswer(q, model.SingleAnswer("anything"))
	if result.Correct || result.Score != 0 {
		t.Fatalf("unknown type must score 0 without panicking, got %+v", result)
	}
}
