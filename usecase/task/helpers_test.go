package task_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
	"github.com/fastygo/teamups/repository/boltdb"
	"github.com/fastygo/teamups/usecase"
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n *domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *n)
	return nil
}

func (p *recordingPublisher) For(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, n := range p.sent {
		if n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

func openStore(t *testing.T) *boltdb.Store {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "teamups.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newNotifier() (*usecase.Notifier, *recordingPublisher) {
	pub := &recordingPublisher{}
	return usecase.NewNotifier(pub, nil), pub
}

func seedUser(t *testing.T, store repository.Store, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:    username,
		Email:       username + "@example.com",
		Role:        domain.RoleDoer,
		IsAvailable: true,
	}
	err := store.Update(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users().Create(ctx, u)
	})
	require.NoError(t, err)
	return u
}

func seedTeam(t *testing.T, store repository.Store, name, leaderID string, maxMembers int) *domain.Team {
	t.Helper()
	team := domain.NewTeam(name, leaderID, maxMembers)
	err := store.Update(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		return repos.Teams().Create(ctx, team)
	})
	require.NoError(t, err)
	return team
}

func loadTeam(t *testing.T, store repository.Store, id string) *domain.Team {
	t.Helper()
	var team *domain.Team
	err := store.View(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		team, err = repos.Teams().GetByID(ctx, id)
		return err
	})
	require.NoError(t, err)
	return team
}

func storedNotifications(t *testing.T, store repository.Store, userID string) []domain.Notification {
	t.Helper()
	var out []domain.Notification
	err := store.View(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		out, err = repos.Notifications().List(ctx, repository.NotificationFilter{UserID: userID, Limit: 100})
		return err
	})
	require.NoError(t, err)
	return out
}
