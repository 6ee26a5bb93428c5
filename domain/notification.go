package domain

import "time"

// MaxMessageLength bounds notification text, counted in runes.
const MaxMessageLength = 25

// Notification is a short message delivered to a single user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification truncates message to MaxMessageLength runes.
func NewNotification(userID, message string) *Notification {
	if r := []rune(message); len(r) > MaxMessageLength {
		message = string(r[:MaxMessageLength])
	}
	return &Notification{
		UserID:  userID,
		Message: message,
	}
}

// MarkRead flags the notification as read by its owner.
func (n *Notification) MarkRead(actorID string) error {
	if actorID == "" || n.UserID != actorID {
		return ErrForbidden
	}
	n.IsRead = true
	return nil
}
