package domain

import (
	"slices"
	"time"
	"unicode/utf8"
)

const (
	MaxTeamNameLength = 20
	DefaultMaxMembers = 5
)

// Team is a group of users managed by a single leader.
type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	LeaderID      string    `json:"leader_id"`
	Members       []string  `json:"members"`
	MaxMembers    int       `json:"max_members"`
	TeamworkScore *float64  `json:"teamwork_score,omitempty"`
	ScoreCount    int       `json:"score_count"`
	ScoreSum      float64   `json:"score_sum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTeam builds a team whose leader is its first member.
func NewTeam(name, leaderID string, maxMembers int) *Team {
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}
	return &Team{
		Name:       name,
		LeaderID:   leaderID,
		Members:    []string{leaderID},
		MaxMembers: maxMembers,
	}
}

func (t *Team) Validate() error {
	if t == nil || t.Name == "" || utf8.RuneCountInString(t.Name) > MaxTeamNameLength {
		return ErrInvalidPayload
	}
	if t.LeaderID == "" || t.MaxMembers < 1 {
		return ErrInvalidPayload
	}
	if !t.HasMember(t.LeaderID) || len(t.Members) > t.MaxMembers {
		return ErrInvalidPayload
	}
	return nil
}

func (t *Team) IsLeader(userID string) bool {
	return t != nil && userID != "" && t.LeaderID == userID
}

func (t *Team) HasMember(userID string) bool {
	return t != nil && slices.Contains(t.Members, userID)
}

func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MaxMembers
}

// CanAdd reports whether userID may join without breaking the capacity limit.
func (t *Team) CanAdd(userID string) bool {
	return !t.HasMember(userID) && !t.IsFull()
}

func (t *Team) AddMember(userID string) error {
	if t.HasMember(userID) {
		return ErrAlreadyMember
	}
	if t.IsFull() {
		return ErrTeamFull
	}
	t.Members = append(t.Members, userID)
	return nil
}

// RemoveMember drops a member. The leader can never leave the member set.
func (t *Team) RemoveMember(userID string) error {
	if !t.HasMember(userID) {
		return ErrNotAMember
	}
	if t.IsLeader(userID) {
		return ErrLeaderRemoval
	}
	t.Members = slices.DeleteFunc(t.Members, func(id string) bool { return id == userID })
	return nil
}

// Rate applies a teamwork rating to the team's running score.
func (t *Team) Rate(rating float64) error {
	tally, err := RestoreTally(t.TeamworkScore, t.ScoreSum, t.ScoreCount).Add(rating)
	if err != nil {
		return err
	}
	t.TeamworkScore = tally.Score()
	t.ScoreSum = tally.Sum
	t.ScoreCount = tally.Count
	return nil
}

// CanRate reports whether rater may rate rated: they must be different users
// sharing at least one team.
func CanRate(raterID, ratedID string, raterTeams, ratedTeams []string) bool {
	if raterID == "" || raterID == ratedID {
		return false
	}
	for _, id := range raterTeams {
		if slices.Contains(ratedTeams, id) {
			return true
		}
	}
	return false
}
