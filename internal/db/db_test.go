package db

import (
	"context"
	"path/filepath"
	"testing"

	"neoshop/internal/config"
	"neoshop/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "localhost",
		DBUser:     "test_user",
		DBPassword: "test_password",
		DBName:     "test_db",
		DBPort:     "5432",
	}

	expected := "host=localhost user=test_user password=test_password dbname=test_db port=5432 sslmode=disable"
	assert.Equal(t, expected, buildDSN(cfg))
}

func TestNewDatabase_InvalidDriver(t *testing.T) {
	db, err := newDatabaseWithDriver("invalid_driver_name", "")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to open DB")
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.DriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "neoshop.db"),
	}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(ctx, &config.Config{StorageDriver: config.DriverMemory})
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.Set(ctx, "k", "v"))
		v, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("SQLite creates schema", func(t *testing.T) {
		store, closeFn, err := OpenStore(ctx, &config.Config{
			StorageDriver: config.DriverSQLite,
			SQLitePath:    filepath.Join(t.TempDir(), "neoshop.db"),
		})
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &storage.SQLStore{}, store)
		assert.NoError(t, store.Set(ctx, "neoshop.cart", "[]"))
	})
}
