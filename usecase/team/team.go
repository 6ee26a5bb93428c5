package team

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
	store             repository.Store
	notifier          *usecase.Notifier
	defaultMaxMembers int
	logger            *zap.Logger
}

func New(store repository.Store, notifier *usecase.Notifier, defaultMaxMembers int, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultMaxMembers <= 0 {
		defaultMaxMembers = domain.DefaultMaxMembers
	}
	return &UseCase{
		store:             store,
		notifier:          notifier,
		defaultMaxMembers: defaultMaxMembers,
		logger:            log,
	}
}

// Create registers a team led by leaderID, who also becomes its first member.
// A non-positive maxMembers falls back to the configured default.
func (uc *UseCase) Create(ctx context.Context, leaderID, name string, maxMembers int) (*domain.Team, error) {
	if maxMembers <= 0 {
		maxMembers = uc.defaultMaxMembers
	}
	team := domain.NewTeam(name, leaderID, maxMembers)
	if err := team.Validate(); err != nil {
		return nil, err
	}

	var staged usecase.Staged
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users().GetByID(ctx, leaderID); err != nil {
			return err
		}
		if err := repos.Teams().Create(ctx, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, leaderID, fmt.Sprintf("Team '%s' created!", team.Name))
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("team created",
		zap.String("team_id", team.ID),
		zap.String("leader_id", leaderID),
		zap.Int("max_members", team.MaxMembers))
	uc.notifier.Publish(ctx, staged)
	return team, nil
}

func (uc *UseCase) Get(ctx context.Context, teamID string) (*domain.Team, error) {
	var team *domain.Team
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		team, err = repos.Teams().GetByID(ctx, teamID)
		return err
	})
	return team, err
}

// ListForUser returns every team userID is a member of.
func (uc *UseCase) ListForUser(ctx context.Context, userID string) ([]domain.Team, error) {
	var teams []domain.Team
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		teams, err = repos.Teams().ListByMember(ctx, userID)
		return err
	})
	return teams, err
}

// AddMember lets the leader add a user directly, subject to capacity.
func (uc *UseCase) AddMember(ctx context.Context, teamID, userID, actorID string) (*domain.Team, error) {
	var staged usecase.Staged
	team, err := uc.mutateMembers(ctx, teamID, actorID, func(ctx context.Context, repos repository.Repositories, team *domain.Team) error {
		if _, err := repos.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		if err := team.AddMember(userID); err != nil {
			return err
		}
		return uc.notifier.Stage(ctx, repos, &staged, userID, "Added to "+team.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("member added",
		zap.String("team_id", teamID),
		zap.String("user_id", userID),
		zap.Int("members", len(team.Members)))
	uc.notifier.Publish(ctx, staged)
	return team, nil
}

// RemoveMember lets the leader drop a member. The leader cannot be removed.
func (uc *UseCase) RemoveMember(ctx context.Context, teamID, userID, actorID string) (*domain.Team, error) {
	var staged usecase.Staged
	team, err := uc.mutateMembers(ctx, teamID, actorID, func(ctx context.Context, repos repository.Repositories, team *domain.Team) error {
		if err := team.RemoveMember(userID); err != nil {
			return err
		}
		return uc.notifier.Stage(ctx, repos, &staged, userID, "Removed from "+team.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("member removed",
		zap.String("team_id", teamID),
		zap.String("user_id", userID))
	uc.notifier.Publish(ctx, staged)
	return team, nil
}

// Rate folds a teamwork rating from one of the team's members into the
// team's running score.
func (uc *UseCase) Rate(ctx context.Context, teamID, raterID string, rating float64) (*domain.Team, error) {
	if !domain.ValidRating(rating) {
		return nil, domain.ErrInvalidArgument
	}

	var (
		team   *domain.Team
		staged usecase.Staged
	)
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		team, err = repos.Teams().GetForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.HasMember(raterID) {
			return domain.ErrForbidden
		}
		if err := team.Rate(rating); err != nil {
			return err
		}
		if err := repos.Teams().Update(ctx, team); err != nil {
			return fmt.Errorf("failed to store team score: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, team.LeaderID, "New rating for "+team.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("team rated",
		zap.String("team_id", teamID),
		zap.Float64("teamwork_score", *team.TeamworkScore),
		zap.Int("score_count", team.ScoreCount))
	uc.notifier.Publish(ctx, staged)
	return team, nil
}

// Delete removes the team and its invitations; its tasks lose their team.
func (uc *UseCase) Delete(ctx context.Context, teamID, actorID string) error {
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		team, err := repos.Teams().GetForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.IsLeader(actorID) {
			return domain.ErrForbidden
		}
		return repos.Teams().Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	logger.WithRequestID(ctx, uc.logger).Info("team deleted", zap.String("team_id", teamID))
	return nil
}

func (uc *UseCase) mutateMembers(
	ctx context.Context,
	teamID, actorID string,
	mutate func(ctx context.Context, repos repository.Repositories, team *domain.Team) error,
) (*domain.Team, error) {
	var team *domain.Team
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		team, err = repos.Teams().GetForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.IsLeader(actorID) {
			return domain.ErrForbidden
		}
		if err := mutate(ctx, repos, team); err != nil {
			return err
		}
		if err := repos.Teams().Update(ctx, team); err != nil {
			return fmt.Errorf("failed to update members: %w", err)
		}
		return nil
	})
	if err != nil {
		if !usecase.Rejected(err) {
			logger.WithRequestID(ctx, uc.logger).Error("membership change failed",
				zap.String("team_id", teamID), zap.Error(err))
		}
		return nil, err
	}
	return team, nil
}
