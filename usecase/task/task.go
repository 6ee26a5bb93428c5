package task

import (
	"context"
	"fmt"
	"time"

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

// Create stores a new pending task. When the task names a team, its creator
// must belong to that team.
func (uc *UseCase) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.Status = domain.TaskPending
	if err := task.Validate(); err != nil {
		return nil, err
	}

	var staged usecase.Staged
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users().GetByID(ctx, task.CreatedByID); err != nil {
			return err
		}
		if task.TeamID != "" {
			team, err := repos.Teams().GetByID(ctx, task.TeamID)
			if err != nil {
				return err
			}
			if !team.HasMember(task.CreatedByID) {
				return domain.ErrForbidden
			}
		}
		if err := repos.Tasks().Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, task.CreatedByID, fmt.Sprintf("Task '%s' created!", task.Title))
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.String("task_id", task.ID),
		zap.String("team_id", task.TeamID))
	uc.notifier.Publish(ctx, staged)
	return task, nil
}

func (uc *UseCase) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	var task *domain.Task
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		task, err = repos.Tasks().GetByID(ctx, taskID)
		return err
	})
	return task, err
}

// ListForUser returns the tasks of every team userID belongs to.
func (uc *UseCase) ListForUser(ctx context.Context, userID string, status domain.TaskStatus, limit, offset int) ([]domain.Task, error) {
	var tasks []domain.Task
	err := uc.store.View(ctx, func(ctx context.Context, repos repository.Repositories) error {
		teamIDs, err := repos.Teams().TeamIDsByMember(ctx, userID)
		if err != nil {
			return err
		}
		tasks, err = repos.Tasks().List(ctx, repository.TaskFilter{
			TeamIDs: teamIDs,
			Status:  status,
			Limit:   limit,
			Offset:  offset,
		})
		return err
	})
	return tasks, err
}

// MarkCompleted completes the task on behalf of its team's leader.
// Completing an already completed task succeeds without changes.
func (uc *UseCase) MarkCompleted(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	var staged usecase.Staged
	task, err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task, team *domain.Team) error {
		wasCompleted := task.IsCompleted()
		if err := task.MarkCompleted(actorID, team); err != nil {
			return err
		}
		if wasCompleted {
			return nil
		}
		if err := repos.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, task.CreatedByID, fmt.Sprintf("Task '%s' done", task.Title))
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task completed", zap.String("task_id", taskID))
	uc.notifier.Publish(ctx, staged)
	return task, nil
}

// ExtendDeadline moves the deadline of a pending task forward by extraDays.
func (uc *UseCase) ExtendDeadline(ctx context.Context, taskID, actorID string, extraDays int) (time.Time, error) {
	var (
		deadline time.Time
		staged   usecase.Staged
	)
	_, err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task, team *domain.Team) error {
		var err error
		if deadline, err = task.ExtendDeadline(actorID, team, extraDays); err != nil {
			return err
		}
		if err := repos.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to extend deadline: %w", err)
		}
		return uc.notifier.Stage(ctx, repos, &staged, task.CreatedByID, "Deadline extended")
	})
	if err != nil {
		return time.Time{}, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task deadline extended",
		zap.String("task_id", taskID),
		zap.Int("extra_days", extraDays),
		zap.Time("deadline", deadline))
	uc.notifier.Publish(ctx, staged)
	return deadline, nil
}

func (uc *UseCase) mutate(
	ctx context.Context,
	taskID string,
	apply func(ctx context.Context, repos repository.Repositories, task *domain.Task, team *domain.Team) error,
) (*domain.Task, error) {
	var task *domain.Task
	err := uc.store.Update(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		task, err = repos.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		var team *domain.Team
		if task.TeamID != "" {
			team, err = repos.Teams().GetByID(ctx, task.TeamID)
			if err != nil && err != domain.ErrTeamNotFound {
				return err
			}
		}
		return apply(ctx, repos, task, team)
	})
	if err != nil {
		if !usecase.Rejected(err) {
			logger.WithRequestID(ctx, uc.logger).Error("task update failed", zap.String("task_id", taskID), zap.Error(err))
		}
		return nil, err
	}
	return task, nil
}
