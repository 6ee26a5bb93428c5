package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/repository"
)

const taskColumns = `id, title, description, deadline, team_id, created_by_id, task_type, status, created_at, updated_at`

type taskRepository struct {
	q querier
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.q.QueryRow(ctx, query, id))
}

func (r *taskRepository) GetForUpdate(ctx context.Context, id string) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	return scanTask(r.q.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if len(filter.TeamIDs) == 0 {
		return nil, nil
	}

	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE team_id::text = ANY($1::text[])
	  AND ($2 = '' OR status = $2)
	ORDER BY deadline ASC, created_at ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.q.Query(ctx, query, filter.TeamIDs, string(filter.Status), repository.ClampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	ensureID(&task.ID)

	const query = `
	INSERT INTO tasks (id, title, description, deadline, team_id, created_by_id, task_type, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	return r.q.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Deadline,
		nullString(task.TeamID),
		task.CreatedByID,
		string(task.Type),
		string(task.Status),
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		deadline = $4,
		team_id = $5,
		task_type = $6,
		status = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Deadline,
		nullString(task.TeamID),
		string(task.Type),
		string(task.Status),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task     domain.Task
		teamID   *string
		taskType string
		status   string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&teamID,
		&task.CreatedByID,
		&taskType,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if teamID != nil {
		task.TeamID = *teamID
	}
	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	return &task, nil
}
