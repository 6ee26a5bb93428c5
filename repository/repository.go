package repository

import (
	"context"

	"github.com/fastygo/teamups/domain"
)

// Store gives access to the repositories. Every read-modify-write sequence
// runs inside Update so that it commits or rolls back as one unit.
type Store interface {
	// Update runs fn in a read-write transaction. Returning an error rolls back.
	Update(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}

// Repositories is the set of repositories bound to one transaction.
type Repositories interface {
	Users() UserRepository
	Teams() TeamRepository
	Invitations() InvitationRepository
	Tasks() TaskRepository
	Notifications() NotificationRepository
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetForUpdate loads the user and holds its row until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create fails with domain.ErrUserExists on a username or email clash.
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}

type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	// GetForUpdate loads the team and serializes concurrent membership changes.
	GetForUpdate(ctx context.Context, id string) (*domain.Team, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Team, error)
	// TeamIDsByMember returns the IDs of every team userID belongs to.
	TeamIDsByMember(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, team *domain.Team) error
	// Update persists scalar fields and replaces the member set.
	Update(ctx context.Context, team *domain.Team) error
	// Delete removes the team with its invitations and detaches its tasks.
	Delete(ctx context.Context, id string) error
}

type InvitationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Invitation, error)
	// HasPending reports whether userID already holds a pending invitation to teamID.
	HasPending(ctx context.Context, teamID, userID string) (bool, error)
	ListPendingByUser(ctx context.Context, userID string) ([]domain.Invitation, error)
	Create(ctx context.Context, invitation *domain.Invitation) error
	UpdateStatus(ctx context.Context, invitation *domain.Invitation) error
}

type TaskFilter struct {
	TeamIDs []string
	Status  domain.TaskStatus
	Limit   int
	Offset  int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
}

type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, error)
	Create(ctx context.Context, notification *domain.Notification) error
	MarkRead(ctx context.Context, id string) error
}

// ClampLimit bounds page sizes for list queries.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
