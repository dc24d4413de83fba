package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type fakeQuestLedger struct {
	versions []model.Quest
}

func (f *fakeQuestLedger) AppendQuest(ctx context.Context, quest *model.Quest) (*model.LedgerRecord, error) {
	stored := *quest
	stored.CreatedAt = time.Now()
	f.versions = append(f.versions, stored)
	return &model.LedgerRecord{
		ID:        model.GenerateUUID(),
		EntityKey: model.QuestEntityKey(quest.QuestID),
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (f *fakeQuestLedger) CurrentByQuestID(ctx context.Context, questID string) (*model.Quest, error) {
	for i := len(f.versions) - 1; i >= 0; i-- {
		if f.versions[i].QuestID == questID && f.versions[i].Active {
			q := f.versions[i]
			return &q, nil
		}
	}
	return nil, util.ErrQuestNotFound
}

func (f *fakeQuestLedger) ListVersions(ctx context.Context, questID string) ([]model.Quest, error) {
	var out []model.Quest
	for _, v := range f.versions {
		if v.QuestID == questID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeQuestLedger) ListCurrent(ctx context.Context) ([]model.Quest, error) {
	var out []model.Quest
	seen := map[string]bool{}
	for i := len(f.versions) - 1; i >= 0; i-- {
		v := f.versions[i]
		if !seen[v.QuestID] && v.Active {
			out = append(out, v)
		}
		seen[v.QuestID] = true
	}
	return out, nil
}

func validQuestRequest() QuestRequest {
	quest := sampleQuest()
	return QuestRequest{
		QuestID:  quest.QuestID,
		Title:    quest.Title,
		Sections: quest.Sections,
		Metadata: quest.Metadata,
	}
}

func TestCreateQuestValid(t *testing.T) {
	ledger := &fakeQuestLedger{}
	svc := NewQuestService(ledger, nil, time.Minute)

	quest, err := svc.CreateQuest(context.Background(), "0xauthor", validQuestRequest())
	if err != nil {
		t.Fatalf("CreateQuest failed: %v", err)
	}
	if !quest.Active || quest.CreatedBy != "0xauthor" {
		t.Fatalf("created quest mismatch: %+v", quest)
	}
	if len(ledger.versions) != 1 {
		t.Fatalf("expected one appended version, got %d", len(ledger.versions))
	}
}

func TestCreateQuestFillsMetadata(t *testing.T) {
	svc := NewQuestService(&fakeQuestLedger{}, nil, time.Minute)

	req := validQuestRequest()
	req.Metadata = model.QuestMetadata{PassingScore: 6}

	quest, err := svc.CreateQuest(context.Background(), "0xauthor", req)
	if err != nil {
		t.Fatalf("CreateQuest failed: %v", err)
	}
	if quest.Metadata.TotalQuestions != 3 || quest.Metadata.TotalPoints != 10 {
		t.Fatalf("metadata must be derived from sections, got %+v", quest.Metadata)
	}
}

func TestCreateQuestValidationProblems(t *testing.T) {
	svc := NewQuestService(&fakeQuestLedger{}, nil, time.Minute)

	cases := []struct {
		name    string
		mutate  func(*QuestRequest)
		problem string
	}{
		{
			name:    "no sections",
			mutate:  func(r *QuestRequest) { r.Sections = nil },
			problem: "at least one section",
		},
		{
			name: "section points mismatch",
			mutate: func(r *QuestRequest) {
				r.Sections[0].Points = 99
				r.Metadata = model.QuestMetadata{PassingScore: 6}
			},
			problem: "do not match question sum",
		},
		{
			name: "passing score above total",
			mutate: func(r *QuestRequest) {
				r.Metadata.PassingScore = 11
			},
			problem: "passingScore",
		},
		{
			name: "multiple choice without correct option",
			mutate: func(r *QuestRequest) {
				for i := range r.Sections[0].Questions[0].Options {
					r.Sections[0].Questions[0].Options[i].Correct = false
				}
			},
			problem: "exactly one correct option",
		},
		{
			name: "true false with non literal answer",
			mutate: func(r *QuestRequest) {
				r.Sections[0].Questions[1].Answer = model.SingleAnswer("yes")
			},
			problem: "true/false answer",
		},
		{
			name: "fill blank answer outside word bank",
			mutate: func(r *QuestRequest) {
				r.Sections[1].Questions[0].Answer = model.SingleAnswer("hola")
			},
			problem: "word bank",
		},
		{
			name: "unknown question type",
			mutate: func(r *QuestRequest) {
				r.Sections[0].Questions[0].Type = "essay"
			},
			problem: "unknown question type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validQuestRequest()
			tc.mutate(&req)

			_, err := svc.CreateQuest(context.Background(), "0xauthor", req)
			ve, ok := util.IsValidationError(err)
			if !ok {
				t.Fatalf("expected a validation error, got %v", err)
			}
			found := false
			for _, p := range ve.Problems {
				if strings.Contains(p, tc.problem) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected problem containing %q, got %v", tc.problem, ve.Problems)
			}
		})
	}
}

func TestUnpublishOwnerOnly(t *testing.T) {
	ledger := &fakeQuestLedger{}
	svc := NewQuestService(ledger, nil, time.Minute)

	if _, err := svc.CreateQuest(context.Background(), "0xauthor", validQuestRequest()); err != nil {
		t.Fatalf("CreateQuest failed: %v", err)
	}

	if err := svc.Unpublish(context.Background(), "0xstranger", "quest-1"); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-owner, got %v", err)
	}

	if err := svc.Unpublish(context.Background(), "0xauthor", "quest-1"); err != nil {
		t.Fatalf("owner Unpublish failed: %v", err)
	}
	if len(ledger.versions) != 2 || ledger.versions[1].Active {
		t.Fatalf("unpublish must append an inactive version, got %+v", ledger.versions)
	}

	if _, err := svc.CurrentByQuestID(context.Background(), "quest-1"); !errors.Is(err, util.ErrQuestNotFound) {
		t.Fatalf("unpublished quest must not resolve, got %v", err)
	}
}
