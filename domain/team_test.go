package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTeam(t *testing.T) {
	team := NewTeam("core", "lead", 0)
	assert.Equal(t, DefaultMaxMembers, team.MaxMembers)
	assert.Equal(t, []string{"lead"}, team.Members)
	assert.Nil(t, team.TeamworkScore)
	require.NoError(t, team.Validate())
}

func TestTeamValidate(t *testing.T) {
	assert.ErrorIs(t, NewTeam("", "lead", 3).Validate(), ErrInvalidPayload)
	assert.ErrorIs(t, NewTeam("a name far too long for a team", "lead", 3).Validate(), ErrInvalidPayload)
	assert.ErrorIs(t, NewTeam("core", "", 3).Validate(), ErrInvalidPayload)

	team := NewTeam("core", "lead", 1)
	team.Members = append(team.Members, "extra")
	assert.ErrorIs(t, team.Validate(), ErrInvalidPayload)
}

func TestTeamMembership(t *testing.T) {
	team := NewTeam("core", "lead", 3)

	require.NoError(t, team.AddMember("a"))
	assert.ErrorIs(t, team.AddMember("a"), ErrAlreadyMember)
	assert.True(t, team.CanAdd("b"))
	require.NoError(t, team.AddMember("b"))

	assert.True(t, team.IsFull())
	assert.False(t, team.CanAdd("c"))
	assert.ErrorIs(t, team.AddMember("c"), ErrTeamFull)
	assert.Len(t, team.Members, 3)

	assert.ErrorIs(t, team.RemoveMember("lead"), ErrLeaderRemoval)
	assert.ErrorIs(t, team.RemoveMember("c"), ErrNotAMember)
	require.NoError(t, team.RemoveMember("a"))
	assert.Equal(t, []string{"lead", "b"}, team.Members)
	assert.True(t, team.HasMember("lead"))
}

func TestTeamRate(t *testing.T) {
	team := NewTeam("core", "lead", 3)
	require.NoError(t, team.Rate(5))
	require.NoError(t, team.Rate(4))
	require.NotNil(t, team.TeamworkScore)
	assert.InDelta(t, 4.5, *team.TeamworkScore, 1e-9)
	assert.Equal(t, 2, team.ScoreCount)
	assert.Equal(t, 9.0, team.ScoreSum)

	assert.ErrorIs(t, team.Rate(6), ErrInvalidArgument)
	assert.Equal(t, 2, team.ScoreCount)
}

func TestCanRate(t *testing.T) {
	assert.True(t, CanRate("a", "b", []string{"t1", "t2"}, []string{"t2"}))
	assert.False(t, CanRate("a", "b", []string{"t1"}, []string{"t2"}))
	assert.False(t, CanRate("a", "a", []string{"t1"}, []string{"t1"}))
	assert.False(t, CanRate("", "b", nil, []string{"t1"}))
	assert.False(t, CanRate("a", "b", nil, nil))
}
