package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the collaboration profile of a user.
type Role string

const (
	RoleLeader    Role = "LEADER"
	RoleSupporter Role = "SUPPORTER"
	RoleThinker   Role = "THINKER"
	RoleDoer      Role = "DOER"
	RoleConnector Role = "CONNECTOR"
)

// Roles lists every valid role in declaration order.
var Roles = []Role{RoleLeader, RoleSupporter, RoleThinker, RoleDoer, RoleConnector}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts any casing of a role name.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

const (
	MaxUsernameLength = 20
	MaxSkillsLength   = 100
	MaxLocationLength = 50

	locationFallback = "Location not set"
)

// User represents a registered collaborator.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Skills      string    `json:"skills,omitempty"`
	Score       *float64  `json:"score,omitempty"`
	ScoreCount  int       `json:"score_count"`
	ScoreSum    float64   `json:"score_sum"`
	Location    string    `json:"location,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if u == nil {
		return ErrInvalidPayload
	}
	if u.Username == "" || utf8.RuneCountInString(u.Username) > MaxUsernameLength {
		return ErrInvalidPayload
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidPayload
	}
	if !u.Role.Valid() {
		return ErrInvalidPayload
	}
	if utf8.RuneCountInString(u.Skills) > MaxSkillsLength || utf8.RuneCountInString(u.Location) > MaxLocationLength {
		return ErrInvalidPayload
	}
	return nil
}

// DisplayLocation returns the location or a placeholder when unset.
func (u *User) DisplayLocation() string {
	if u == nil || u.Location == "" {
		return locationFallback
	}
	return u.Location
}

// Rate applies a rating to the user's running score.
func (u *User) Rate(rating float64) error {
	tally, err := RestoreTally(u.Score, u.ScoreSum, u.ScoreCount).Add(rating)
	if err != nil {
		return err
	}
	u.Score = tally.Score()
	u.ScoreSum = tally.Sum
	u.ScoreCount = tally.Count
	return nil
}
