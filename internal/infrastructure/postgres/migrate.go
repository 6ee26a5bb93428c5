package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/assets"
	"github.com/fastygo/teamups/internal/config"
)

// RunMigrations brings the schema up to date when migrations are enabled.
// Migrations are read from cfg.Migrations.Path, or from the embedded set when
// no path is configured.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("migrations: ping: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrations: driver: %w", err)
	}

	m, err := newMigrate(cfg.Migrations.Path, cfg.Database.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()
	m.Log = migrateLogger{logger: logger}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, _ := m.Version()
	logger.Info("database migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func newMigrate(path, dbName string, driver database.Driver) (*migrate.Migrate, error) {
	if dbName == "" {
		dbName = "teamups"
	}
	if path != "" {
		sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(path))
		return migrate.NewWithDatabaseInstance(sourceURL, dbName, driver)
	}

	src, err := iofs.New(assets.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations: embedded source: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, dbName, driver)
}

// migrateLogger routes golang-migrate output through zap at debug level.
type migrateLogger struct {
	logger *zap.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), zap.String("component", "migrate"))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}
