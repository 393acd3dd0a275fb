package db

import (
	"context"
	"database/sql"
	"fmt"

	"neoshop/internal/config"
	"neoshop/internal/logger"
	"neoshop/internal/storage"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}

// NewDatabase opens and pings the SQL handle for the configured driver.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return newDatabaseWithDriver("sqlite", cfg.SQLitePath)
	default:
		return newDatabaseWithDriver("postgres", buildDSN(cfg))
	}
}

func newDatabaseWithDriver(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// OpenStore builds the durable slot store selected by cfg.StorageDriver.
// The returned close func releases the underlying handle, if any.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	log := logger.FromCtx(ctx).With(zap.String("driver", cfg.StorageDriver))

	if cfg.StorageDriver == config.DriverMemory {
		log.Info("using in-memory storage; nothing will survive a restart")
		return storage.NewMemoryStore(), func() error { return nil }, nil
	}

	database, err := NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	dialect := storage.DialectPostgres
	if cfg.StorageDriver == config.DriverSQLite {
		dialect = storage.DialectSQLite
	}

	store := storage.NewSQLStore(database, dialect)
	if dialect == storage.DialectSQLite {
		if err := store.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
	}

	log.Info("database connection established")
	return store, database.Close, nil
}
