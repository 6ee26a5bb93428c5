package boltdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

type notificationRepository struct {
	tx *bolt.Tx
}

func (r *notificationRepository) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	return get[domain.Notification](r.tx, bucketNotifications, id, domain.ErrNotificationNotFound)
}

func (r *notificationRepository) List(_ context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	notifications, err := scan(r.tx, bucketNotifications, func(n *domain.Notification) bool {
		return n.UserID == filter.UserID && (!filter.UnreadOnly || !n.IsRead)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return page(notifications, filter.Limit, filter.Offset), nil
}

func (r *notificationRepository) Create(_ context.Context, notification *domain.Notification) error {
	if notification == nil {
		return domain.ErrInvalidPayload
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now()
	}
	return put(r.tx, bucketNotifications, notification.ID, notification)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	n.IsRead = true
	return put(r.tx, bucketNotifications, n.ID, n)
}
