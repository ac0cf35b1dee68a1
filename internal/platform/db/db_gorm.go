// Package db opens the optional history database.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	callanalysisadapters "call_analysis/internal/feature/callanalysis/adapters"
)

// ErrDisabled is returned by Open when no database driver is configured.
var ErrDisabled = errors.New("history database is disabled")

const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	// retryInterval はDB接続リトライの間隔です。
	retryInterval  = 3 * time.Second
	connectTimeout = 60 * time.Second
)

// Config holds database connection settings.
type Config struct {
	Driver       string // none | sqlite | postgres | mysql
	DSN          string // used as-is when set
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance; takes precedence over Host/Port
	Migrate      bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv loads database settings from environment variables.
func LoadConfigFromEnv() Config {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = DriverNone
	}
	return Config{
		Driver:       driver,
		DSN:          os.Getenv("DB_DSN"),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		Migrate:      os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// BuildDSN returns the connection string for cfg.Driver.
// An explicit DSN always wins.
func BuildDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Name == "" {
			return "call_analysis.db"
		}
		return cfg.Name
	case DriverPostgres:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	default:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// OpenerFor returns the gorm opener for a driver name.
func OpenerFor(driver string) (Opener, error) {
	var dial func(string) gorm.Dialector
	switch driver {
	case DriverSQLite:
		dial = sqlite.Open
	case DriverPostgres:
		dial = postgres.Open
	case DriverMySQL:
		dial = gmysql.Open
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{})
	}, nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Until(deadline) < retryInterval {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(retryInterval)
	}
}

// Open connects to the configured database and migrates the record table
// when requested. SQLite is always migrated since it is usually a fresh file.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Driver == "" || cfg.Driver == DriverNone {
		return nil, ErrDisabled
	}
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, open)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate || cfg.Driver == DriverSQLite {
		if err := db.AutoMigrate(&callanalysisadapters.RecordModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
