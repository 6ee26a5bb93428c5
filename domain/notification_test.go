package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationTruncates(t *testing.T) {
	n := NewNotification("u1", strings.Repeat("é", 40))
	assert.Equal(t, MaxMessageLength, utf8.RuneCountInString(n.Message))
	assert.False(t, n.IsRead)

	short := NewNotification("u1", "hi")
	assert.Equal(t, "hi", short.Message)
}

func TestNotificationMarkRead(t *testing.T) {
	n := NewNotification("u1", "hello")
	assert.ErrorIs(t, n.MarkRead("u2"), ErrForbidden)
	assert.False(t, n.IsRead)
	require.NoError(t, n.MarkRead("u1"))
	assert.True(t, n.IsRead)
}

func TestUserValidate(t *testing.T) {
	u := &User{Username: "alice", Email: "alice@example.com", Role: RoleThinker}
	require.NoError(t, u.Validate())
	assert.Equal(t, "Location not set", u.DisplayLocation())

	u.Email = "nope"
	assert.ErrorIs(t, u.Validate(), ErrInvalidPayload)

	role, ok := ParseRole(" connector ")
	assert.True(t, ok)
	assert.Equal(t, RoleConnector, role)
	_, ok = ParseRole("wizard")
	assert.False(t, ok)
}
