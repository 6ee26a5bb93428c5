package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/teamups/domain"
)

const userColumns = `id, username, email, role, skills, score, score_count, score_sum, location, is_available, created_at, updated_at`

type userRepository struct {
	q querier
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(ctx, query, id))
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(r.q.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.q.QueryRow(ctx, query, username))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	ensureID(&user.ID)

	const query = `
	INSERT INTO users (id, username, email, role, skills, score, score_count, score_sum, location, is_available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		string(user.Role),
		user.Skills,
		user.Score,
		user.ScoreCount,
		user.ScoreSum,
		user.Location,
		user.IsAvailable,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET role = $2,
		skills = $3,
		score = $4,
		score_count = $5,
		score_sum = $6,
		location = $7,
		is_available = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		user.ID,
		string(user.Role),
		user.Skills,
		user.Score,
		user.ScoreCount,
		user.ScoreSum,
		user.Location,
		user.IsAvailable,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&role,
		&user.Skills,
		&user.Score,
		&user.ScoreCount,
		&user.ScoreSum,
		&user.Location,
		&user.IsAvailable,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = domain.Role(role)
	return &user, nil
}
