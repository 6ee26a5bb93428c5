package domain

import "time"

// InvitationStatus tracks where an invitation is in its lifecycle.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
)

// Invitation is an offer of team membership resolved once by the invitee.
type Invitation struct {
	ID            string           `json:"id"`
	TeamID        string           `json:"team_id"`
	InvitedUserID string           `json:"invited_user_id"`
	InvitedByID   string           `json:"invited_by_id"`
	Status        InvitationStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewInvitation(teamID, invitedUserID, invitedByID string) *Invitation {
	return &Invitation{
		TeamID:        teamID,
		InvitedUserID: invitedUserID,
		InvitedByID:   invitedByID,
		Status:        InvitationPending,
	}
}

func (i *Invitation) IsPending() bool {
	return i != nil && i.Status == InvitationPending
}

// CheckResolvable verifies that actorID may resolve the invitation now.
func (i *Invitation) CheckResolvable(actorID string) error {
	if actorID == "" || i.InvitedUserID != actorID {
		return ErrForbidden
	}
	if !i.IsPending() {
		return ErrAlreadyHandled
	}
	return nil
}

// Accept moves the invitation to ACCEPTED and adds the invitee to team. The
// team must be the invitation's team; on any failure neither side changes.
func (i *Invitation) Accept(actorID string, team *Team) error {
	if err := i.CheckResolvable(actorID); err != nil {
		return err
	}
	if team == nil || team.ID != i.TeamID {
		return ErrTeamNotFound
	}
	if err := team.AddMember(i.InvitedUserID); err != nil {
		if err == ErrAlreadyMember {
			return err
		}
		return ErrTeamFull
	}
	i.Status = InvitationAccepted
	return nil
}

func (i *Invitation) Decline(actorID string) error {
	if err := i.CheckResolvable(actorID); err != nil {
		return err
	}
	i.Status = InvitationDeclined
	return nil
}
