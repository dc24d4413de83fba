package model

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueUnmarshal(t *testing.T) {
	var single AnswerValue
	if err := json.Unmarshal([]byte(`"Paris"`), &single); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if single.IsList || single.Single() != "Paris" {
		t.Fatalf("expected single value Paris, got %+v", single)
	}

	var list AnswerValue
	if err := json.Unmarshal([]byte(`["A","B"]`), &list); err != nil {
		t.Fatalf("unmarshal list failed: %v", err)
	}
	if !list.IsList || len(list.Values) != 2 {
		t.Fatalf("expected list of 2, got %+v", list)
	}

	var null AnswerValue
	if err := json.Unmarshal([]byte(`null`), &null); err != nil {
		t.Fatalf("unmarshal null failed: %v", err)
	}
	if !null.IsEmpty() {
		t.Fatalf("null must decode to the empty value, got %+v", null)
	}

	var bad AnswerValue
	if err := json.Unmarshal([]byte(`{"x":1}`), &bad); err == nil {
		t.Fatalf("objects are not valid answers")
	}
}

func TestAnswerValueMarshal(t *testing.T) {
	b, err := json.Marshal(SingleAnswer("Paris"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"Paris"` {
		t.Fatalf("expected quoted string, got %s", b)
	}

	b, err = json.Marshal(ListAnswer("A", "B"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `["A","B"]` {
		t.Fatalf("expected array, got %s", b)
	}
}

func TestFindQuestion(t *testing.T) {
	quest := &Quest{
		Sections: []QuestSection{
			{ID: "s1", Questions: []QuizQuestion{{ID: "q1"}, {ID: "q2"}}},
			{ID: "s2", Questions: []QuizQuestion{{ID: "q1"}}},
		},
	}

	q := quest.FindQuestion("s2", "q1")
	if q == nil {
		t.Fatalf("expected to find s2/q1")
	}

	if quest.FindQuestion("s1", "q9") != nil {
		t.Fatalf("missing question must yield nil")
	}
	if quest.FindQuestion("s9", "q1") != nil {
		t.Fatalf("missing section must yield nil")
	}
}
