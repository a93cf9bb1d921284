// Package db provides access to the task tables in MySQL or SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/tOgg1/taskdeck/internal/models"
)

// Driver names accepted by Open.
const (
	DriverMySQL   = "mysql"
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

// ErrUnsupportedDriver is returned for driver names Open does not know.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config holds database connection settings.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the connection defaults.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverMySQL,
		MaxOpenConns:    4,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DB wraps a connection pool together with the SQL dialect of its driver.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to the configured store and verifies the connection.
// SQLite stores get their task tables created when missing.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if err := models.ValidateSchemas(); err != nil {
		return nil, fmt.Errorf("invalid task schema: %w", err)
	}
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database dsn is required")
	}

	sqlDB, err := openPool(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemoryDSN(cfg.DSN) {
		// every pooled connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, dialect: dialect}
	if dialect.bootstrap {
		if err := db.Bootstrap(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// Transaction runs fn inside a transaction, rolling back when fn fails.
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func openPool(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverMySQL:
		mcfg, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		connector, err := mysql.NewConnector(mcfg)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	case DriverSQLite:
		return sql.Open(DriverSQLite, sqliteDSN(cfg.DSN))
	case DriverSQLite3:
		return sql.Open(sqlite3Driver, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// sqliteDSN adds a busy timeout to file databases opened with modernc.
func sqliteDSN(dsn string) string {
	if isMemoryDSN(dsn) || strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
