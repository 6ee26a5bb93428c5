package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/internal/config"
)

const applicationName = "teamups"

// NewPool creates a pgx pool and waits for the first successful ping.
// Statements slower than the trace threshold or failing are logged through logger.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pgxCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pgxCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pgxCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pgxCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pgxCfg.HealthCheckPeriod = time.Minute
	if _, ok := pgxCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		pgxCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	pgxCfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   traceLogger{logger: logger.Named("pgx")},
		LogLevel: tracelog.LogLevelWarn,
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres",
		zap.String("host", pgxCfg.ConnConfig.Host),
		zap.String("db", pgxCfg.ConnConfig.Database),
		zap.Int32("max_conns", pgxCfg.MaxConns))
	return pool, nil
}

// traceLogger adapts zap to the pgx tracelog.Logger interface.
type traceLogger struct {
	logger *zap.Logger
}

func (l traceLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}

	switch level {
	case tracelog.LogLevelError:
		l.logger.Error(msg, fields...)
	case tracelog.LogLevelWarn:
		l.logger.Warn(msg, fields...)
	case tracelog.LogLevelInfo:
		l.logger.Info(msg, fields...)
	default:
		l.logger.Debug(msg, fields...)
	}
}
