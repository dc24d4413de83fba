package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
)

type fakeNotificationStore struct {
	notifications map[string]*model.Notification
	appendCount   int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: map[string]*model.Notification{}}
}

func (f *fakeNotificationStore) AppendNotification(ctx context.Context, n *model.Notification) (*model.LedgerRecord, error) {
	f.appendCount++
	stored := *n
	f.notifications[n.NotificationID] = &stored
	return &model.LedgerRecord{ID: model.GenerateUUID(), CreatedAt: time.Now()}, nil
}

func (f *fakeNotificationStore) CurrentByID(ctx context.Context, id string) (*model.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, util.ErrNotifyNotFound
	}
	return n, nil
}

func (f *fakeNotificationStore) ListCurrent(ctx context.Context, wallet string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.notifications {
		if n.Wallet == wallet {
			out = append(out, *n)
		}
	}
	return out, nil
}

func TestNotifyAndUnreadCount(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, nil)

	for i := 0; i < 3; i++ {
		if err := svc.Notify(context.Background(), "0xwallet", model.NotificationSystemNotice, "标题", "内容"); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}
	if err := svc.Notify(context.Background(), "0xother", model.NotificationSystemNotice, "标题", "内容"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	count, err := svc.UnreadCount(context.Background(), "0xwallet")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, nil)

	if err := svc.Notify(context.Background(), "0xwallet", model.NotificationCertIssued, "标题", "内容"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	var id string
	for k := range store.notifications {
		id = k
	}

	if err := svc.MarkRead(context.Background(), "0xwallet", id); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	appended := store.appendCount

	// 再次标记不产生新记录
	if err := svc.MarkRead(context.Background(), "0xwallet", id); err != nil {
		t.Fatalf("second MarkRead failed: %v", err)
	}
	if store.appendCount != appended {
		t.Fatalf("marking a read notification must not append, got %d appends", store.appendCount)
	}

	count, err := svc.UnreadCount(context.Background(), "0xwallet")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after MarkRead, got %d", count)
	}
}

func TestMarkReadUnknownNotification(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, nil)

	if err := svc.MarkRead(context.Background(), "0xwallet", "no-such-id"); !errors.Is(err, util.ErrNotifyNotFound) {
		t.Fatalf("expected ErrNotifyNotFound, got %v", err)
	}
}

func TestMarkReadWrongWallet(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, nil)

	if err := svc.Notify(context.Background(), "0xwallet", model.NotificationCertIssued, "标题", "内容"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	var id string
	for k := range store.notifications {
		id = k
	}

	if err := svc.MarkRead(context.Background(), "0xother", id); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
