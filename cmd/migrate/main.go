package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"neoshop/internal/config"
	"neoshop/internal/db"
	"neoshop/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedded embed.FS

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal("invalid configuration", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.StorageDriver == config.DriverMemory {
		logger.L().Fatal("nothing to migrate for the memory storage driver")
	}

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect db", zap.Error(err))
	}
	defer database.Close()

	migrationsFS, _ := fs.Sub(embedded, "migrations")
	m := newMigrator(database, cfg.StorageDriver, migrationsFS)
	if err := m.run(context.Background(), *mode); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

type migrator struct {
	db     *sql.DB
	driver string
	files  fs.FS
	log    *zap.Logger
}

func newMigrator(database *sql.DB, driver string, files fs.FS) *migrator {
	return &migrator{
		db:     database,
		driver: driver,
		files:  files,
		log:    logger.L().With(zap.String("layer", "migrate"), zap.String("driver", driver)),
	}
}

func (m *migrator) ph(n int) string {
	if m.driver == config.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (m *migrator) run(ctx context.Context, mode string) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	versions, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	slices.Sort(versions)

	switch mode {
	case "up":
		return m.up(ctx, versions)
	case "down":
		return m.down(ctx, versions)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func (m *migrator) up(ctx context.Context, versions []string) error {
	applied := 0
	for _, version := range versions {
		var exists bool
		err := m.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = `+m.ph(1)+`)`, version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			m.log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := fs.ReadFile(m.files, version)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", version, err)
		}

		m.log.Info("applying migration", zap.String("version", version))
		if err := m.apply(ctx, extractMigrationPart(string(content), "Up"),
			`INSERT INTO schema_migrations (version) VALUES (`+m.ph(1)+`)`, version); err != nil {
			return fmt.Errorf("migration failed (%s): %w", version, err)
		}
		applied++
	}

	m.log.Info("migrations applied", zap.Int("count", applied))
	return nil
}

func (m *migrator) down(ctx context.Context, versions []string) error {
	var last string
	err := m.db.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		m.log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	if !slices.Contains(versions, last) {
		return fmt.Errorf("migration file not found for version: %s", last)
	}

	content, err := fs.ReadFile(m.files, last)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", last, err)
	}

	m.log.Info("rolling back migration", zap.String("version", last))
	if err := m.apply(ctx, extractMigrationPart(string(content), "Down"),
		`DELETE FROM schema_migrations WHERE version = `+m.ph(1), last); err != nil {
		return fmt.Errorf("rollback failed (%s): %w", last, err)
	}
	return nil
}

// apply runs the migration body and its bookkeeping statement in one
// transaction.
func (m *migrator) apply(ctx context.Context, body, record, version string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return fmt.Errorf("failed to record migration version: %w", err)
	}
	return tx.Commit()
}

func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	var inPart bool

	for line := range strings.SplitSeq(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
