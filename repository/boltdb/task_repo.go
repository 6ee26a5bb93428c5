package boltdb

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

type taskRepository struct {
	tx *bolt.Tx
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	return get[domain.Task](r.tx, bucketTasks, id, domain.ErrTaskNotFound)
}

func (r *taskRepository) GetForUpdate(ctx context.Context, id string) (*domain.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if len(filter.TeamIDs) == 0 {
		return nil, nil
	}
	tasks, err := scan(r.tx, bucketTasks, func(t *domain.Task) bool {
		if t.TeamID == "" || !slices.Contains(filter.TeamIDs, t.TeamID) {
			return false
		}
		return filter.Status == "" || t.Status == filter.Status
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].Deadline.Equal(tasks[j].Deadline) {
			return tasks[i].Deadline.Before(tasks[j].Deadline)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return page(tasks, filter.Limit, filter.Offset), nil
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.TeamID != "" && r.tx.Bucket(bucketTeams).Get([]byte(task.TeamID)) == nil {
		return domain.ErrTeamNotFound
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt
	return put(r.tx, bucketTasks, task.ID, task)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	current, err := r.GetByID(ctx, task.ID)
	if err != nil {
		return err
	}
	task.CreatedByID = current.CreatedByID
	task.CreatedAt = current.CreatedAt
	task.UpdatedAt = now()
	return put(r.tx, bucketTasks, task.ID, task)
}
