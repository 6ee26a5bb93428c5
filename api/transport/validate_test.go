package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamups/domain"
)

func TestValidateSignUp(t *testing.T) {
	ok := SignUpRequest{Username: "alice", Email: "alice@example.com", Role: "thinker"}
	require.NoError(t, Validate(&ok))

	noRole := SignUpRequest{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, Validate(&noRole))

	bad := SignUpRequest{Username: "", Email: "nope", Role: "wizard"}
	err := Validate(&bad)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "role is invalid")
}

func TestValidateRating(t *testing.T) {
	require.NoError(t, Validate(&RatingRequest{Rating: 4.5}))

	err := Validate(&RatingRequest{Rating: 6})
	assert.ErrorContains(t, err, "rating must be at most 5")
	err = Validate(&RatingRequest{})
	assert.ErrorContains(t, err, "rating is required")
}

func TestValidateTask(t *testing.T) {
	req := TaskCreateRequest{Title: "ship", Deadline: "2026-05-01T09:00:00Z", Type: "TESTING"}
	require.NoError(t, Validate(&req))

	req.Type = "SLEEPING"
	assert.ErrorContains(t, Validate(&req), "task_type must be one of")

	req.Type = "TESTING"
	req.Title = "a title that is far too long to fit"
	assert.ErrorContains(t, Validate(&req), "title must be at most 20")
}

func TestValidateAvailability(t *testing.T) {
	assert.ErrorContains(t, Validate(&AvailabilityRequest{}), "is_available is required")
	off := false
	require.NoError(t, Validate(&AvailabilityRequest{Available: &off}))
}
