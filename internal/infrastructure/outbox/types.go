package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is a notification push that could not be delivered right away.
type Message struct {
	ID       string          `json:"id"`
	Channel  string          `json:"channel"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	QueuedAt time.Time       `json:"queued_at"`

	key []byte
}

func (m *Message) normalize() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.QueuedAt.IsZero() {
		m.QueuedAt = time.Now()
	}
}
