package service

import (
	"context"
	"strconv"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type NotificationStore interface {
	AppendNotification(ctx context.Context, n *model.Notification) (*model.LedgerRecord, error)
	CurrentByID(ctx context.Context, id string) (*model.Notification, error)
	ListCurrent(ctx context.Context, wallet string) ([]model.Notification, error)
}

// NotificationService 通知同样走追加式账本：标记已读就是追加一条
// Read=true 的同实体键记录。未读数走 redis 计数缓存。
type NotificationService struct {
	Store NotificationStore
	Redis *redis.Client
}

func NewNotificationService(store NotificationStore, rdb *redis.Client) *NotificationService {
	return &NotificationService{Store: store, Redis: rdb}
}

func (s *NotificationService) Notify(ctx context.Context, wallet, kind, title, body string) error {
	n := &model.Notification{
		NotificationID: model.GenerateUUID(),
		Wallet:         wallet,
		Kind:           kind,
		Title:          title,
		Body:           body,
		CreatedAt:      time.Now(),
	}
	if _, err := s.Store.AppendNotification(ctx, n); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, wallet)
	return nil
}

func (s *NotificationService) List(ctx context.Context, wallet string) ([]model.Notification, error) {
	return s.Store.ListCurrent(ctx, wallet)
}

// MarkRead 幂等：已读的通知再次标记不产生新记录
func (s *NotificationService) MarkRead(ctx context.Context, wallet, id string) error {
	current, err := s.Store.CurrentByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return util.ErrNotifyNotFound
	}
	if current.Wallet != wallet {
		return util.ErrPermissionDenied
	}
	if current.Read {
		return nil
	}

	read := *current
	read.Read = true
	if _, err := s.Store.AppendNotification(ctx, &read); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, wallet)
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, wallet string) (int, error) {
	cacheKey := "notifications:unread:" + wallet

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if count, err := strconv.Atoi(cached); err == nil {
				return count, nil
			}
		}
	}

	notifications, err := s.Store.ListCurrent(ctx, wallet)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, cacheKey, strconv.Itoa(count), time.Minute).Err(); err != nil {
			logger.Log.Debug("Unread count cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnreadCount(ctx context.Context, wallet string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, "notifications:unread:"+wallet).Err(); err != nil {
		logger.Log.Debug("Unread count cache invalidation failed", zap.Error(err))
	}
}
