package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore returns a Postgres-backed repository.Store. Row locks taken through
// the GetForUpdate methods are held until Update returns.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) repository.Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &store{pool: pool, logger: logger}
}

func (s *store) Update(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return s.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

func (s *store) View(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return s.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (s *store) Close() error {
	s.pool.Close()
	return nil
}

func (s *store) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			s.logger.Error("panic in transaction", zap.Any("panic", p))
			panic(p)
		}
		// no-op once committed
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(ctx, repos{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type repos struct {
	q querier
}

func (r repos) Users() repository.UserRepository                 { return &userRepository{q: r.q} }
func (r repos) Teams() repository.TeamRepository                 { return &teamRepository{q: r.q} }
func (r repos) Invitations() repository.InvitationRepository     { return &invitationRepository{q: r.q} }
func (r repos) Tasks() repository.TaskRepository                 { return &taskRepository{q: r.q} }
func (r repos) Notifications() repository.NotificationRepository { return &notificationRepository{q: r.q} }

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
