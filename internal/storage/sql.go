package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"neoshop/internal/logger"

	"go.uber.org/zap"
)

// Dialect selects placeholder syntax for the SQL backends.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_slots (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLStore keeps slots in the kv_slots table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// EnsureSchema creates kv_slots when it is missing. Postgres deployments
// normally get the table from cmd/migrate instead.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure kv_slots table: %w", err)
	}
	return nil
}

func (s *SQLStore) ph(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_slots WHERE key = `+s.ph(1), key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("slot read failed",
			zap.String("layer", "storage"),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("%w %q: %v", ErrFailedGetSlot, key, err)
	}

	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "storage"),
		zap.String("method", "Set"),
		zap.String("key", key),
	)
	start := time.Now()

	query := `
	INSERT INTO kv_slots (key, value, updated_at)
	VALUES (` + s.ph(1) + `, ` + s.ph(2) + `, CURRENT_TIMESTAMP)
	ON CONFLICT (key) DO UPDATE
	SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		log.Error("slot write failed", zap.Error(err))
		return fmt.Errorf("%w %q: %v", ErrFailedSetSlot, key, err)
	}

	log.Debug("slot written",
		zap.Int("bytes", len(value)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = `+s.ph(1), key); err != nil {
		return fmt.Errorf("%w %q: %v", ErrFailedSetSlot, key, err)
	}
	return nil
}
