package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by db.OpenStore.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv  string
	AppPort string

	// CatalogSource is either an http(s) URL or a path to a local JSON file.
	CatalogSource string

	StorageDriver string
	SQLitePath    string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	CheckoutDelay time.Duration
	CollationLang string
	CORSOrigin    string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getenv("APP_ENV", "development"),
		AppPort:       getenv("APP_PORT", "8080"),
		CatalogSource: getenv("CATALOG_SOURCE", "data/products.json"),
		StorageDriver: getenv("STORAGE_DRIVER", DriverSQLite),
		SQLitePath:    getenv("SQLITE_PATH", "neoshop.db"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getenv("DB_PORT", "5432"),
		CollationLang: getenv("COLLATION_LANG", "es"),
		CORSOrigin:    getenv("CORS_ORIGIN", "http://localhost:3000"),
		CheckoutDelay: 900 * time.Millisecond,
	}

	if raw := os.Getenv("CHECKOUT_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid CHECKOUT_DELAY_MS %q", raw)
		}
		cfg.CheckoutDelay = time.Duration(ms) * time.Millisecond
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DBHost == "" {
			return nil, fmt.Errorf("DB_HOST is required for the %s storage driver", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
