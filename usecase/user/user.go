package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/pkg/logger"
	"github.com/fastygo/teamups/repository"
	"github.com/fastygo/teamups/usecase"
)

// RoleClassifier suggests a role from a free-text skills description.
type RoleClassifier interface {
	Predict(skills string) domain.Role
}

type UseCase struct {
	store      repository.Store
	notifier   *usecase.Notifier
	classifier RoleClassifier
	logger     *zap.Logger
}

func New(store repository.Store, notifier *usecase.Notifier, classifier RoleClassifier, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UseCase{
		store:      store,
		notifier:   notifier,
		classifier: classifier,
		logger:     log,
	}
}

// SignUp registers a user. An empty role is filled in from the skills text.
func (uc *UseCase) SignUp(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, domain.ErrInvalidPayload
	}
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" && uc.classifier != nil {
		u.Role = uc.classifier.Predict(u.Skills)
	}
	u.Score = nil
	u.ScoreCount = 0
	u.ScoreSum = 0
	u.IsAvailable = true

	if err := u.Validate(); err != nil {
		return nil, err
	}

	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user signed up",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)))
	return u, nil
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u *domain.User
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		u, err = repos.Users().GetByID(ctx, userID)
		return err
	})
	return u, err
}

// SetAvailability toggles whether the user is open to join teams.
func (uc *UseCase) SetAvailability(ctx context.Context, userID string, available bool) (*domain.User, error) {
	var u *domain.User
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		u, err = repos.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		u.IsAvailable = available
		return repos.Users().Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Rate lets raterID rate a teammate. Both users must share a team and a user
// can never rate themselves.
func (uc *UseCase) Rate(ctx context.Context, ratedID, raterID string, rating float64) (*domain.User, error) {
	if !domain.ValidRating(rating) {
		return nil, domain.ErrInvalidArgument
	}

	var (
		rated  *domain.User
		staged usecase.Staged
	)
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		rated, err = repos.Users().GetForUpdate(ctx, ratedID)
		if err != nil {
			return err
		}

		raterTeams, err := repos.Teams().TeamIDsByMember(ctx, raterID)
		if err != nil {
			return err
		}
		ratedTeams, err := repos.Teams().TeamIDsByMember(ctx, ratedID)
		if err != nil {
			return err
		}
		if !domain.CanRate(raterID, ratedID, raterTeams, ratedTeams) {
			return domain.ErrForbidden
		}

		if err := rated.Rate(rating); err != nil {
			return err
		}
		if err := repos.Users().Update(ctx, rated); err != nil {
			return fmt.Errorf("failed to store user score: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, ratedID, "You received a rating")
	})
	if err != nil {
		if !usecase.Rejected(err) {
			logger.WithRequestID(ctx, uc.logger).Error("user rating failed", zap.String("user_id", ratedID), zap.Error(err))
		}
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user rated",
		zap.String("user_id", ratedID),
		zap.Float64("score", *rated.Score),
		zap.Int("score_count", rated.ScoreCount))
	uc.notifier.Publish(ctx, staged)
	return rated, nil
}
