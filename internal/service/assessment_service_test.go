package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"arkiv_quests_backend/internal/model"
)

type fakeResultStore struct {
	appended  []*model.AssessmentResult
	appendErr error
	failOn    int // 第N次追加失败（1起），0表示不失败
	listErr   error
}

func (f *fakeResultStore) AppendResult(ctx context.Context, res *model.AssessmentResult) (*model.LedgerRecord, error) {
	if f.appendErr != nil && (f.failOn == 0 || f.failOn == len(f.appended)+1) {
		return nil, f.appendErr
	}
	stored := *res
	f.appended = append(f.appended, &stored)
	return &model.LedgerRecord{
		ID:        model.GenerateUUID(),
		EntityKey: model.ResultEntityKey(res.QuestID, res.Wallet),
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeResultStore) ListByWalletAndQuest(ctx context.Context, wallet, questID string) ([]model.StoredResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	// 最新在前，与账本查询语义一致
	out := make([]model.StoredResult, 0, len(f.appended))
	for i := len(f.appended) - 1; i >= 0; i-- {
		out = append(out, model.StoredResult{AssessmentResult: *f.appended[i]})
	}
	return out, nil
}

type staticReconciler struct {
	progress map[string]model.ProgressRecord
}

func (s *staticReconciler) Reconcile(ctx context.Context, wallet, questID string) map[string]model.ProgressRecord {
	if s.progress == nil {
		return map[string]model.ProgressRecord{}
	}
	return s.progress
}

type fakeNotifier struct {
	kinds []string
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, wallet, kind, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.kinds = append(f.kinds, kind)
	return nil
}

func answered(sectionID, questionID string, correct bool, timeSpent int) model.ProgressRecord {
	return model.ProgressRecord{
		SectionID:   sectionID,
		QuestionID:  questionID,
		Correct:     correct,
		TimeSpent:   timeSpent,
		SubmittedAt: time.Now(),
	}
}

func TestScoreAssessmentPartialProgress(t *testing.T) {
	quest := sampleQuest() // 10分满分，及格线6

	progress := map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 30), // 5分
		"s1:q2": answered("s1", "q2", false, 10),
		// s2:q3 未作答
	}

	result := ScoreAssessment(quest, progress)
	if result.TotalScore != 5 {
		t.Fatalf("expected total score 5, got %d", result.TotalScore)
	}
	if result.TotalPoints != 10 {
		t.Fatalf("total points must come from quest metadata, got %d", result.TotalPoints)
	}
	if result.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", result.Percentage)
	}
	if result.Passed {
		t.Fatalf("5 < 6 must not pass")
	}

	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 section scores, got %d", len(result.Sections))
	}
	s1 := result.Sections[0]
	if s1.QuestionsAnswered != 2 || s1.PointsEarned != 5 || s1.TimeSpent != 40 {
		t.Fatalf("section s1 mismatch: %+v", s1)
	}
	s2 := result.Sections[1]
	if s2.QuestionsAnswered != 0 || s2.PointsEarned != 0 {
		t.Fatalf("unanswered section must contribute nothing: %+v", s2)
	}
}

func TestScoreAssessmentPassBoundaryInclusive(t *testing.T) {
	quest := sampleQuest()
	progress := map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 0), // 5
		"s1:q2": answered("s1", "q2", true, 0), // 1
	}

	result := ScoreAssessment(quest, progress)
	if result.TotalScore != 6 {
		t.Fatalf("expected 6, got %d", result.TotalScore)
	}
	if !result.Passed {
		t.Fatalf("score equal to passing score must pass")
	}
}

func TestScoreAssessmentEmptyProgress(t *testing.T) {
	quest := sampleQuest()

	result := ScoreAssessment(quest, map[string]model.ProgressRecord{})
	if result.TotalScore != 0 || result.Percentage != 0 || result.Passed {
		t.Fatalf("empty progress must score 0/0%%/fail, got %+v", result)
	}
}

func TestScoreAssessmentZeroTotalPoints(t *testing.T) {
	quest := &model.Quest{QuestID: "empty", Metadata: model.QuestMetadata{}}

	result := ScoreAssessment(quest, map[string]model.ProgressRecord{})
	if result.Percentage != 0 {
		t.Fatalf("zero total points must not divide by zero, got %d%%", result.Percentage)
	}
}

func TestCompleteFailingAttempt(t *testing.T) {
	quests := &fakeQuestStore{quests: map[string]*model.Quest{"quest-1": sampleQuest()}}
	results := &fakeResultStore{}
	svc := NewAssessmentService(quests, &staticReconciler{}, results, nil, nil)

	resp, err := svc.Complete(context.Background(), "0xwallet", "quest-1", time.Now())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Result.Passed {
		t.Fatalf("empty progress must not pass")
	}
	if resp.Result.AttemptNumber != 1 {
		t.Fatalf("first attempt must be number 1, got %d", resp.Result.AttemptNumber)
	}
	if len(results.appended) != 1 {
		t.Fatalf("failing attempt must append exactly one record, got %d", len(results.appended))
	}
	if results.appended[0].Certification != nil {
		t.Fatalf("failing attempt must not carry a certification")
	}
}

func TestCompletePassingAttemptAppendsCertifiedCopy(t *testing.T) {
	quests := &fakeQuestStore{quests: map[string]*model.Quest{"quest-1": sampleQuest()}}
	results := &fakeResultStore{}
	notifier := &fakeNotifier{}
	evidence := &fakeEvidenceRecorder{}
	reconciler := &staticReconciler{progress: map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 0),
		"s1:q2": answered("s1", "q2", true, 0),
		"s2:q3": answered("s2", "q3", true, 0),
	}}
	svc := NewAssessmentService(quests, reconciler, results, evidence, notifier)

	resp, err := svc.Complete(context.Background(), "0xwalletaddr", "quest-1", time.Now())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !resp.Result.Passed {
		t.Fatalf("full marks must pass")
	}

	if len(results.appended) != 2 {
		t.Fatalf("passing attempt must append result + certified copy, got %d records", len(results.appended))
	}
	if results.appended[0].Certification != nil {
		t.Fatalf("first record must be the plain result")
	}
	cert := results.appended[1].Certification
	if cert == nil || !cert.Issued {
		t.Fatalf("second record must carry an issued certification")
	}
	wantPrefix := "CERT-quest-1-0xwallet-"
	if len(cert.CertificateID) != len(wantPrefix)+8 || cert.CertificateID[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("unexpected certificate id %q", cert.CertificateID)
	}

	if resp.Result.Certification == nil {
		t.Fatalf("response must expose the certified result")
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != model.NotificationCertIssued {
		t.Fatalf("expected a cert_issued notification, got %v", notifier.kinds)
	}
}

func TestCompleteCertAppendFailureDoesNotFail(t *testing.T) {
	quests := &fakeQuestStore{quests: map[string]*model.Quest{"quest-1": sampleQuest()}}
	results := &fakeResultStore{appendErr: errors.New("deadlock"), failOn: 2}
	reconciler := &staticReconciler{progress: map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 0),
		"s1:q2": answered("s1", "q2", true, 0),
		"s2:q3": answered("s2", "q3", true, 0),
	}}
	svc := NewAssessmentService(quests, reconciler, results, nil, nil)

	resp, err := svc.Complete(context.Background(), "0xwallet", "quest-1", time.Now())
	if err != nil {
		t.Fatalf("cert append failure must not fail the completion: %v", err)
	}
	if resp.Result.Certification != nil {
		t.Fatalf("when the certified copy is not recorded the response must stay uncertified")
	}
	if len(results.appended) != 1 {
		t.Fatalf("expected only the plain result to be recorded, got %d", len(results.appended))
	}
}

func TestCompleteAttemptNumberSkipsCertifiedCopies(t *testing.T) {
	quests := &fakeQuestStore{quests: map[string]*model.Quest{"quest-1": sampleQuest()}}
	results := &fakeResultStore{}
	reconciler := &staticReconciler{progress: map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 0),
		"s1:q2": answered("s1", "q2", true, 0),
		"s2:q3": answered("s2", "q3", true, 0),
	}}
	svc := NewAssessmentService(quests, reconciler, results, nil, nil)

	// 第一次通过：落两条记录（结果 + 认证副本）
	if _, err := svc.Complete(context.Background(), "0xwallet", "quest-1", time.Now()); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	resp, err := svc.Complete(context.Background(), "0xwallet", "quest-1", time.Now())
	if err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if resp.Result.AttemptNumber != 2 {
		t.Fatalf("certified copies must not inflate the attempt count, got attempt %d", resp.Result.AttemptNumber)
	}
}

func TestGetResultEmpty(t *testing.T) {
	svc := NewAssessmentService(nil, nil, &fakeResultStore{}, nil, nil)

	result, err := svc.GetResult(context.Background(), "0xwallet", "quest-1")
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if result != nil {
		t.Fatalf("no recorded result must yield nil, got %+v", result)
	}
}

func TestGetResultReturnsLatest(t *testing.T) {
	quests := &fakeQuestStore{quests: map[string]*model.Quest{"quest-1": sampleQuest()}}
	results := &fakeResultStore{}
	reconciler := &staticReconciler{progress: map[string]model.ProgressRecord{
		"s1:q1": answered("s1", "q1", true, 0),
		"s1:q2": answered("s1", "q2", true, 0),
		"s2:q3": answered("s2", "q3", true, 0),
	}}
	svc := NewAssessmentService(quests, reconciler, results, nil, nil)

	if _, err := svc.Complete(context.Background(), "0xwallet", "quest-1", time.Now()); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	result, err := svc.GetResult(context.Background(), "0xwallet", "quest-1")
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if result == nil || result.Certification == nil {
		t.Fatalf("latest record after a pass must be the certified copy, got %+v", result)
	}
}
