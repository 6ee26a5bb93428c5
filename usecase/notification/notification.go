package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

type UseCase struct {
	store  repository.Store
	logger *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{store: store, logger: logger}
}

func (uc *UseCase) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		notifications, err = repos.Notifications().List(ctx, filter)
		return err
	})
	return notifications, err
}

// MarkRead flags a notification owned by userID as read. Repeating it is harmless.
func (uc *UseCase) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	var n *domain.Notification
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		n, err = repos.Notifications().GetByID(ctx, notificationID)
		if err != nil {
			return err
		}
		if err := n.MarkRead(userID); err != nil {
			return err
		}
		return repos.Notifications().MarkRead(ctx, notificationID)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}
