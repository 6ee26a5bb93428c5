package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

type notificationRepository struct {
	q querier
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if !validID(id) {
		return nil, domain.ErrNotificationNotFound
	}
	const query = `SELECT id, user_id, message, is_read, created_at FROM notifications WHERE id = $1`
	return scanNotification(r.q.QueryRow(ctx, query, id))
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	if !validID(filter.UserID) {
		return nil, nil
	}
	const query = `
	SELECT id, user_id, message, is_read, created_at
	FROM notifications
	WHERE user_id = $1
	  AND (NOT $2 OR is_read = FALSE)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.q.Query(ctx, query, filter.UserID, filter.UnreadOnly, repository.ClampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification == nil {
		return domain.ErrInvalidPayload
	}
	ensureID(&notification.ID)

	const query = `
	INSERT INTO notifications (id, user_id, message, is_read, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	RETURNING created_at
	`
	return r.q.QueryRow(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Message,
		notification.IsRead,
		nullTime(notification.CreatedAt),
	).Scan(&notification.CreatedAt)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotificationNotFound
	}
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(row scanner) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}
