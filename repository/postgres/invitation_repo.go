package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/teamups/domain"
)

const invitationColumns = `id, team_id, invited_user_id, invited_by_id, status, created_at, updated_at`

type invitationRepository struct {
	q querier
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	if !validID(id) {
		return nil, domain.ErrInvitationNotFound
	}
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.q.QueryRow(ctx, query, id))
}

func (r *invitationRepository) GetForUpdate(ctx context.Context, id string) (*domain.Invitation, error) {
	if !validID(id) {
		return nil, domain.ErrInvitationNotFound
	}
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1 FOR UPDATE`
	return scanInvitation(r.q.QueryRow(ctx, query, id))
}

func (r *invitationRepository) HasPending(ctx context.Context, teamID, userID string) (bool, error) {
	if !validID(teamID) || !validID(userID) {
		return false, nil
	}
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM invitations
		WHERE team_id = $1 AND invited_user_id = $2 AND status = 'PENDING'
	)
	`
	var exists bool
	err := r.q.QueryRow(ctx, query, teamID, userID).Scan(&exists)
	return exists, err
}

func (r *invitationRepository) ListPendingByUser(ctx context.Context, userID string) ([]domain.Invitation, error) {
	if !validID(userID) {
		return nil, nil
	}
	const query = `
	SELECT ` + invitationColumns + `
	FROM invitations
	WHERE invited_user_id = $1 AND status = 'PENDING'
	ORDER BY created_at DESC
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	if invitation == nil {
		return domain.ErrInvalidPayload
	}
	ensureID(&invitation.ID)

	const query = `
	INSERT INTO invitations (id, team_id, invited_user_id, invited_by_id, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		invitation.ID,
		invitation.TeamID,
		invitation.InvitedUserID,
		invitation.InvitedByID,
		string(invitation.Status),
	).Scan(&invitation.CreatedAt, &invitation.UpdatedAt); err != nil {
		if isUniqueViolation(err, "uq_invitations_pending") {
			return domain.ErrInvitationPending
		}
		return err
	}
	return nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, invitation *domain.Invitation) error {
	if invitation == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE invitations
	SET status = $2, updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.q.QueryRow(ctx, query, invitation.ID, string(invitation.Status)).Scan(&invitation.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvitationNotFound
		}
		return err
	}
	return nil
}

func scanInvitation(row scanner) (*domain.Invitation, error) {
	var (
		inv    domain.Invitation
		status string
	)
	if err := row.Scan(
		&inv.ID,
		&inv.TeamID,
		&inv.InvitedUserID,
		&inv.InvitedByID,
		&status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	return &inv, nil
}
