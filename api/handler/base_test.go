package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/teamups/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrInvalidArgument, http.StatusBadRequest},
		{domain.ErrTeamFull, http.StatusConflict},
		{domain.ErrAlreadyHandled, http.StatusConflict},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", domain.ErrAlreadyCompleted), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}
