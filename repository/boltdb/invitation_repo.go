package boltdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/domain"
)

type invitationRepository struct {
	tx *bolt.Tx
}

func (r *invitationRepository) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	return get[domain.Invitation](r.tx, bucketInvitations, id, domain.ErrInvitationNotFound)
}

func (r *invitationRepository) GetForUpdate(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.GetByID(ctx, id)
}

func (r *invitationRepository) HasPending(_ context.Context, teamID, userID string) (bool, error) {
	pending, err := scan(r.tx, bucketInvitations, func(inv *domain.Invitation) bool {
		return inv.TeamID == teamID && inv.InvitedUserID == userID && inv.IsPending()
	})
	return len(pending) > 0, err
}

func (r *invitationRepository) ListPendingByUser(_ context.Context, userID string) ([]domain.Invitation, error) {
	invitations, err := scan(r.tx, bucketInvitations, func(inv *domain.Invitation) bool {
		return inv.InvitedUserID == userID && inv.IsPending()
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invitations, func(i, j int) bool {
		return invitations[i].CreatedAt.After(invitations[j].CreatedAt)
	})
	return invitations, nil
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	if invitation == nil {
		return domain.ErrInvalidPayload
	}
	if r.tx.Bucket(bucketTeams).Get([]byte(invitation.TeamID)) == nil {
		return domain.ErrTeamNotFound
	}
	if invitation.IsPending() {
		exists, err := r.HasPending(ctx, invitation.TeamID, invitation.InvitedUserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrInvitationPending
		}
	}
	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}
	invitation.CreatedAt = now()
	invitation.UpdatedAt = invitation.CreatedAt
	return put(r.tx, bucketInvitations, invitation.ID, invitation)
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, invitation *domain.Invitation) error {
	if invitation == nil {
		return domain.ErrInvalidPayload
	}
	current, err := r.GetByID(ctx, invitation.ID)
	if err != nil {
		return err
	}
	current.Status = invitation.Status
	current.UpdatedAt = now()
	invitation.UpdatedAt = current.UpdatedAt
	return put(r.tx, bucketInvitations, current.ID, current)
}
