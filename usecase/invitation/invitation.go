package invitation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/pkg/logger"
	"github.com/fastygo/teamups/repository"
	"github.com/fastygo/teamups/usecase"
)

type UseCase struct {
	store    repository.Store
	notifier *usecase.Notifier
	logger   *zap.Logger
}

func New(store repository.Store, notifier *usecase.Notifier, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UseCase{
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// Send creates a pending invitation for invitedUserID. Only the team leader
// may invite. Capacity is not checked here: a full team can still invite and
// the cap is enforced when the invitation is accepted.
func (uc *UseCase) Send(ctx context.Context, teamID, invitedUserID, actorID string) (*domain.Invitation, error) {
	var (
		invitation *domain.Invitation
		staged     usecase.Staged
	)

	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		team, err := repos.Teams().GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.IsLeader(actorID) {
			return domain.ErrForbidden
		}
		if _, err := repos.Users().GetByID(ctx, invitedUserID); err != nil {
			return err
		}
		if team.HasMember(invitedUserID) {
			return domain.ErrAlreadyMember
		}

		pending, err := repos.Invitations().HasPending(ctx, teamID, invitedUserID)
		if err != nil {
			return fmt.Errorf("failed to check pending invitations: %w", err)
		}
		if pending {
			return domain.ErrInvitationPending
		}

		invitation = domain.NewInvitation(teamID, invitedUserID, actorID)
		if err := repos.Invitations().Create(ctx, invitation); err != nil {
			return err
		}

		if err := uc.notifier.Stage(ctx, repos, &staged, invitedUserID, "Invited to "+team.Name); err != nil {
			return err
		}
		return uc.notifier.Stage(ctx, repos, &staged, actorID, "Invitation sent")
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("invitation sent",
		zap.String("invitation_id", invitation.ID),
		zap.String("team_id", teamID),
		zap.String("invited_user_id", invitedUserID))
	uc.notifier.Publish(ctx, staged)
	return invitation, nil
}

// Accept resolves the invitation and adds the invitee to the team in one
// transaction. The team row is locked before the invitation row, so concurrent
// acceptances cannot push the team past its capacity and cannot deadlock with
// a team deletion. A full team leaves the invitation pending.
func (uc *UseCase) Accept(ctx context.Context, invitationID, actorID string) (*domain.Invitation, error) {
	var (
		invitation *domain.Invitation
		team       *domain.Team
		staged     usecase.Staged
	)

	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		peeked, err := repos.Invitations().GetByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if err := peeked.CheckResolvable(actorID); err != nil {
			return err
		}

		// team row first, then the invitation: the order team deletion takes
		team, err = repos.Teams().GetForUpdate(ctx, peeked.TeamID)
		if err != nil {
			return err
		}
		invitation, err = repos.Invitations().GetForUpdate(ctx, invitationID)
		if err != nil {
			return err
		}
		if err := invitation.Accept(actorID, team); err != nil {
			return err
		}

		if err := repos.Teams().Update(ctx, team); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		if err := repos.Invitations().UpdateStatus(ctx, invitation); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, invitation.InvitedUserID, "You joined "+team.Name)
	})
	if err != nil {
		uc.logRejected(ctx, "accept", invitationID, err)
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("invitation accepted",
		zap.String("invitation_id", invitation.ID),
		zap.String("team_id", team.ID),
		zap.Int("members", len(team.Members)))
	uc.notifier.Publish(ctx, staged)
	return invitation, nil
}

// Decline resolves the invitation without touching the team.
func (uc *UseCase) Decline(ctx context.Context, invitationID, actorID string) (*domain.Invitation, error) {
	var (
		invitation *domain.Invitation
		staged     usecase.Staged
	)

	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		invitation, err = repos.Invitations().GetForUpdate(ctx, invitationID)
		if err != nil {
			return err
		}
		if err := invitation.Decline(actorID); err != nil {
			return err
		}
		if err := repos.Invitations().UpdateStatus(ctx, invitation); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}

		teamName := "the team"
		if team, err := repos.Teams().GetByID(ctx, invitation.TeamID); err == nil {
			teamName = team.Name
		}
		return uc.notifier.Stage(ctx, repos, &staged, invitation.InvitedUserID, "You declined "+teamName)
	})
	if err != nil {
		uc.logRejected(ctx, "decline", invitationID, err)
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("invitation declined", zap.String("invitation_id", invitation.ID))
	uc.notifier.Publish(ctx, staged)
	return invitation, nil
}

func (uc *UseCase) Get(ctx context.Context, invitationID string) (*domain.Invitation, error) {
	var invitation *domain.Invitation
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		invitation, err = repos.Invitations().GetByID(ctx, invitationID)
		return err
	})
	return invitation, err
}

// ListPending returns the invitations still waiting on userID.
func (uc *UseCase) ListPending(ctx context.Context, userID string) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		invitations, err = repos.Invitations().ListPendingByUser(ctx, userID)
		return err
	})
	return invitations, err
}

func (uc *UseCase) logRejected(ctx context.Context, action, invitationID string, err error) {
	log := logger.WithRequestID(ctx, uc.logger)
	if usecase.Rejected(err) {
		log.Debug("invitation "+action+" rejected", zap.String("invitation_id", invitationID), zap.Error(err))
		return
	}
	log.Error("invitation "+action+" failed", zap.String("invitation_id", invitationID), zap.Error(err))
}
