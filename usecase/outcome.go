package usecase

import (
	"errors"

	"github.com/fastygo/teamups/domain"
)

// Rejected reports whether err is a business rule rejection, as opposed to an
// infrastructure failure worth logging at error level.
func Rejected(err error) bool {
	var dErr *domain.Error
	return errors.As(err, &dErr) && dErr.Code != domain.ErrCodeInternal
}
