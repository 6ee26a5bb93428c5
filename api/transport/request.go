package transport

// SignUpRequest registers a new user. Role may be omitted, in which case it
// is predicted from the skills text.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,role"`
	Skills   string `json:"skills" validate:"max=100"`
	Location string `json:"location" validate:"max=50"`
}

type AvailabilityRequest struct {
	Available *bool `json:"is_available" validate:"required"`
}

type RatingRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

type TeamCreateRequest struct {
	Name       string `json:"name" validate:"required,max=20"`
	MaxMembers int    `json:"max_members" validate:"omitempty,min=1"`
}

type MemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type InviteRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TaskCreateRequest carries the deadline as an RFC 3339 timestamp.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,max=20"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" validate:"required"`
	TeamID      string `json:"team_id"`
	Type        string `json:"task_type" validate:"required,oneof=PLANNING CREATIVE TECHNICAL RESEARCH TESTING"`
}

type ExtendDeadlineRequest struct {
	Days int `json:"days"`
}
