package invitation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/usecase/invitation"
	teamUC "github.com/fastygo/teamups/usecase/team"
)

func TestSend(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, pub := newNotifier()
	uc := invitation.New(store, notifier, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	team := seedTeam(t, store, "core", lead.ID, 3)

	t.Run("only the leader may invite", func(t *testing.T) {
		_, err := uc.Send(ctx, team.ID, bob.ID, alice.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("creates a pending invitation and notifies both sides", func(t *testing.T) {
		inv, err := uc.Send(ctx, team.ID, alice.ID, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvitationPending, inv.Status)
		assert.Equal(t, lead.ID, inv.InvitedByID)
		assert.Equal(t, []string{"Invited to core"}, pub.For(alice.ID))
		assert.Equal(t, []string{"Invitation sent"}, pub.For(lead.ID))
	})

	t.Run("second pending invitation is rejected", func(t *testing.T) {
		_, err := uc.Send(ctx, team.ID, alice.ID, lead.ID)
		assert.ErrorIs(t, err, domain.ErrInvitationPending)
	})

	t.Run("members cannot be invited", func(t *testing.T) {
		_, err := uc.Send(ctx, team.ID, lead.ID, lead.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("unknown invitee", func(t *testing.T) {
		_, err := uc.Send(ctx, team.ID, "missing", lead.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("unknown team", func(t *testing.T) {
		_, err := uc.Send(ctx, "missing", bob.ID, lead.ID)
		assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	})
}

func TestAcceptAndDecline(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, pub := newNotifier()
	uc := invitation.New(store, notifier, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	team := seedTeam(t, store, "core", lead.ID, 5)

	toAlice, err := uc.Send(ctx, team.ID, alice.ID, lead.ID)
	require.NoError(t, err)
	toBob, err := uc.Send(ctx, team.ID, bob.ID, lead.ID)
	require.NoError(t, err)

	_, err = uc.Accept(ctx, toAlice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	accepted, err := uc.Accept(ctx, toAlice.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationAccepted, accepted.Status)
	assert.True(t, loadTeam(t, store, team.ID).HasMember(alice.ID))
	assert.Contains(t, pub.For(alice.ID), "You joined core")

	_, err = uc.Accept(ctx, toAlice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyHandled)
	_, err = uc.Decline(ctx, toAlice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyHandled)

	declined, err := uc.Decline(ctx, toBob.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationDeclined, declined.Status)
	assert.False(t, loadTeam(t, store, team.ID).HasMember(bob.ID))

	_, err = uc.Accept(ctx, toBob.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyHandled)

	stored, err := uc.Get(ctx, toBob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationDeclined, stored.Status)

	_, err = uc.Accept(ctx, "missing", bob.ID)
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
}

func TestAcceptIntoFullTeam(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, _ := newNotifier()
	uc := invitation.New(store, notifier, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	team := seedTeam(t, store, "pair", lead.ID, 2)

	toAlice, err := uc.Send(ctx, team.ID, alice.ID, lead.ID)
	require.NoError(t, err)
	toBob, err := uc.Send(ctx, team.ID, bob.ID, lead.ID)
	require.NoError(t, err)

	_, err = uc.Accept(ctx, toAlice.ID, alice.ID)
	require.NoError(t, err)

	before := len(storedNotifications(t, store, bob.ID))
	_, err = uc.Accept(ctx, toBob.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrTeamFull)

	stored, err := uc.Get(ctx, toBob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationPending, stored.Status)

	after := loadTeam(t, store, team.ID)
	assert.Len(t, after.Members, 2)
	assert.False(t, after.HasMember(bob.ID))
	assert.Len(t, storedNotifications(t, store, bob.ID), before, "rejected accept leaves no notification behind")

	pending, err := uc.ListPending(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, toBob.ID, pending[0].ID)
}

func TestConcurrentAcceptsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, _ := newNotifier()
	uc := invitation.New(store, notifier, nil)

	lead := seedUser(t, store, "lead")
	team := seedTeam(t, store, "crowd", lead.ID, 3)

	const invitees = 8
	type pair struct{ invitationID, userID string }
	pairs := make([]pair, 0, invitees)
	for i := 0; i < invitees; i++ {
		u := seedUser(t, store, fmt.Sprintf("user%d", i))
		inv, err := uc.Send(ctx, team.ID, u.ID, lead.ID)
		require.NoError(t, err)
		pairs = append(pairs, pair{inv.ID, u.ID})
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		full     int
	)
	for _, p := range pairs {
		wg.Add(1)
		go func(p pair) {
			defer wg.Done()
			_, err := uc.Accept(ctx, p.invitationID, p.userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case assert.ErrorIs(t, err, domain.ErrTeamFull):
				full++
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, 2, accepted)
	assert.Equal(t, invitees-2, full)
	assert.Len(t, loadTeam(t, store, team.ID).Members, 3)
}

func TestAcceptRacingTeamDeletion(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, _ := newNotifier()
	invitations := invitation.New(store, notifier, nil)
	teams := teamUC.New(store, notifier, domain.DefaultMaxMembers, nil)

	lead := seedUser(t, store, "lead")
	for round := 0; round < 10; round++ {
		guest := seedUser(t, store, fmt.Sprintf("guest%d", round))
		crew := seedTeam(t, store, fmt.Sprintf("crew%d", round), lead.ID, 3)
		inv, err := invitations.Send(ctx, crew.ID, guest.ID, lead.ID)
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			acceptErr error
			deleteErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, acceptErr = invitations.Accept(ctx, inv.ID, guest.ID)
		}()
		go func() {
			defer wg.Done()
			deleteErr = teams.Delete(ctx, crew.ID, lead.ID)
		}()
		wg.Wait()

		require.NoError(t, deleteErr)
		if acceptErr != nil {
			assert.True(t, domain.IsDomainError(acceptErr, domain.ErrCodeNotFound), "round %d: %v", round, acceptErr)
		}
	}
}
