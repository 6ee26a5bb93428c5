package postgres

import (
	"time"

	"github.com/google/uuid"
)

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// validID reports whether id can name a row. Every key column is a UUID, so
// anything else cannot match and is treated as missing.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
