package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

// Publisher pushes committed notifications to live subscribers. Delivery is
// best effort; the stored notification is the record of truth.
type Publisher interface {
	Publish(ctx context.Context, notification *domain.Notification) error
}

// Notifier is the notification sink shared by the use cases. Notifications are
// written inside the caller's transaction with Stage and pushed with Publish
// once that transaction has committed.
type Notifier struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewNotifier(publisher Publisher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{publisher: publisher, logger: logger}
}

// Staged collects the notifications written during one transaction.
type Staged []*domain.Notification

// Stage persists a notification for userID through repos and appends it to staged.
func (n *Notifier) Stage(ctx context.Context, repos repository.Repositories, staged *Staged, userID, message string) error {
	notification := domain.NewNotification(userID, message)
	if err := repos.Notifications().Create(ctx, notification); err != nil {
		return err
	}
	*staged = append(*staged, notification)
	return nil
}

// Publish is fire-and-forget: failures are logged and never reach the caller.
func (n *Notifier) Publish(ctx context.Context, staged Staged) {
	if n == nil || n.publisher == nil {
		return
	}
	for _, notification := range staged {
		if err := n.publisher.Publish(ctx, notification); err != nil {
			n.logger.Warn("notification publish failed",
				zap.String("notification_id", notification.ID),
				zap.String("user_id", notification.UserID),
				zap.Error(err))
		}
	}
}
