package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"arkiv_quests_backend/internal/model"
)

type fakeEvidenceStore struct {
	appended  []*model.EvidenceRecord
	appendErr error
	findErr   error
}

func (f *fakeEvidenceStore) AppendEvidence(ctx context.Context, ev *model.EvidenceRecord) (*model.LedgerRecord, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	stored := *ev
	f.appended = append(f.appended, &stored)
	return &model.LedgerRecord{ID: model.GenerateUUID()}, nil
}

func (f *fakeEvidenceStore) FindByTxHash(ctx context.Context, txHash string) (*model.EvidenceRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, ev := range f.appended {
		if ev.TxHash == txHash {
			return ev, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeEvidenceStore) ListByWallet(ctx context.Context, wallet string, limit int) ([]model.EvidenceRecord, error) {
	var out []model.EvidenceRecord
	for _, ev := range f.appended {
		if ev.Wallet == wallet {
			out = append(out, *ev)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestEvidenceRecordConfirmed(t *testing.T) {
	store := &fakeEvidenceStore{}
	svc := NewEvidenceService(store, time.Second)

	ev, err := svc.Record(context.Background(), "0xwallet", "quest-1", "answer_submitted", "progress:key")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if ev.Status != model.EvidenceConfirmed {
		t.Fatalf("expected confirmed, got %s", ev.Status)
	}
	if !strings.HasPrefix(ev.TxHash, "0x") || len(ev.TxHash) != 66 {
		t.Fatalf("expected a 0x-prefixed 32-byte hash, got %q", ev.TxHash)
	}
}

func TestEvidenceRecordReceiptTimeoutIsPending(t *testing.T) {
	store := &fakeEvidenceStore{findErr: context.DeadlineExceeded}
	svc := NewEvidenceService(store, time.Millisecond)

	ev, err := svc.Record(context.Background(), "0xwallet", "quest-1", "assessment_completed", "result:key")
	if err != nil {
		t.Fatalf("receipt timeout must not be an error: %v", err)
	}
	if ev.Status != model.EvidencePending {
		t.Fatalf("expected pending status, got %s", ev.Status)
	}
}

func TestEvidenceRecordLookupFailureIsPending(t *testing.T) {
	store := &fakeEvidenceStore{findErr: errors.New("connection refused")}
	svc := NewEvidenceService(store, time.Second)

	ev, err := svc.Record(context.Background(), "0xwallet", "quest-1", "assessment_completed", "result:key")
	if err != nil {
		t.Fatalf("lookup failure must not be an error: %v", err)
	}
	if ev.Status != model.EvidencePending {
		t.Fatalf("expected pending status, got %s", ev.Status)
	}
}

func TestEvidenceRecordAppendFailurePropagates(t *testing.T) {
	store := &fakeEvidenceStore{appendErr: errors.New("rate limit exceeded")}
	svc := NewEvidenceService(store, time.Second)

	if _, err := svc.Record(context.Background(), "0xwallet", "quest-1", "answer_submitted", "k"); err == nil {
		t.Fatalf("append failure must propagate")
	}
}

func TestEvidenceListClampsLimit(t *testing.T) {
	store := &fakeEvidenceStore{}
	svc := NewEvidenceService(store, time.Second)

	for i := 0; i < 60; i++ {
		if _, err := svc.Record(context.Background(), "0xwallet", "quest-1", "answer_submitted", "k"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	records, err := svc.List(context.Background(), "0xwallet", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("zero limit must clamp to 50, got %d", len(records))
	}

	records, err = svc.List(context.Background(), "0xwallet", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10, got %d", len(records))
	}
}
