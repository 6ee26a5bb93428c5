package team_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/usecase/team"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, pub := newNotifier()
	uc := team.New(store, notifier, 4, nil)

	lead := seedUser(t, store, "lead")

	created, err := uc.Create(ctx, lead.ID, "core", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, created.MaxMembers)
	assert.Equal(t, []string{lead.ID}, created.Members)
	assert.Equal(t, []string{"Team 'core' created!"}, pub.For(lead.ID))

	_, err = uc.Create(ctx, "missing", "ghosts", 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Create(ctx, lead.ID, "", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	teams, err := uc.ListForUser(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, created.ID, teams[0].ID)
}

func TestMembership(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, pub := newNotifier()
	uc := team.New(store, notifier, 0, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	tm := seedTeam(t, store, "core", lead.ID, 2)

	_, err := uc.AddMember(ctx, tm.ID, bob.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := uc.AddMember(ctx, tm.ID, alice.ID, lead.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasMember(alice.ID))
	assert.Equal(t, []string{"Added to core"}, pub.For(alice.ID))

	_, err = uc.AddMember(ctx, tm.ID, alice.ID, lead.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	_, err = uc.AddMember(ctx, tm.ID, bob.ID, lead.ID)
	assert.ErrorIs(t, err, domain.ErrTeamFull)

	_, err = uc.RemoveMember(ctx, tm.ID, lead.ID, lead.ID)
	assert.ErrorIs(t, err, domain.ErrLeaderRemoval)

	_, err = uc.RemoveMember(ctx, tm.ID, bob.ID, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotAMember)

	updated, err = uc.RemoveMember(ctx, tm.ID, alice.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{lead.ID}, updated.Members)

	stored := loadTeam(t, store, tm.ID)
	assert.Equal(t, []string{lead.ID}, stored.Members)
}

func TestConcurrentAddMemberRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, _ := newNotifier()
	uc := team.New(store, notifier, 0, nil)

	lead := seedUser(t, store, "lead")
	tm := seedTeam(t, store, "crowd", lead.ID, 4)

	const candidates = 10
	ids := make([]string, candidates)
	for i := range ids {
		ids[i] = seedUser(t, store, fmt.Sprintf("user%d", i)).ID
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := uc.AddMember(ctx, tm.ID, id, lead.ID)
			if err == nil {
				mu.Lock()
				added++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrTeamFull)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, added)
	assert.Len(t, loadTeam(t, store, tm.ID).Members, 4)
}

func TestRate(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, pub := newNotifier()
	uc := team.New(store, notifier, 0, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	outsider := seedUser(t, store, "outsider")
	tm := seedTeam(t, store, "core", lead.ID, 3)
	_, err := uc.AddMember(ctx, tm.ID, alice.ID, lead.ID)
	require.NoError(t, err)

	_, err = uc.Rate(ctx, tm.ID, outsider.ID, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Rate(ctx, tm.ID, alice.ID, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	for _, r := range []float64{4, 2} {
		_, err = uc.Rate(ctx, tm.ID, alice.ID, r)
		require.NoError(t, err)
	}
	rated, err := uc.Rate(ctx, tm.ID, lead.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, rated.TeamworkScore)
	assert.InDelta(t, 3.7, *rated.TeamworkScore, 1e-9)
	assert.Equal(t, 3, rated.ScoreCount)
	assert.Contains(t, pub.For(lead.ID), "New rating for core")

	stored := loadTeam(t, store, tm.ID)
	assert.InDelta(t, 3.7, *stored.TeamworkScore, 1e-9)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	notifier, _ := newNotifier()
	uc := team.New(store, notifier, 0, nil)

	lead := seedUser(t, store, "lead")
	alice := seedUser(t, store, "alice")
	tm := seedTeam(t, store, "core", lead.ID, 3)

	assert.ErrorIs(t, uc.Delete(ctx, tm.ID, alice.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, tm.ID, lead.ID))

	_, err := uc.Get(ctx, tm.ID)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, tm.ID, lead.ID), domain.ErrTeamNotFound)
}
