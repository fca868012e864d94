package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig configures the database connection and its pool.
type DatabaseConfig struct {
	Driver          string // "sqlite" or "postgres"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewDatabase opens a gorm.DB for config.Driver. The "sqlite" driver is
// glebarez/sqlite, a pure-Go, cgo-free implementation used for tests and
// local development; "postgres" is the production dialect.
func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite":
		dialector = sqlite.Open(config.DSN)
	case "postgres":
		dialector = postgres.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Lets gorm map the driver-specific duplicate-key error to the
		// portable gorm.ErrDuplicatedKey, which GormEventStore.Push relies on
		// to turn a unique-constraint race on (instance, aggregate,
		// sequence_no) into a domain.ConcurrencyError.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	return db, nil
}

// DefaultSQLiteConfig returns an in-memory, cgo-free configuration for tests.
func DefaultSQLiteConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
	}
}

// DefaultPostgreSQLConfig returns a production configuration template.
func DefaultPostgreSQLConfig(host, user, password, dbname string, port int) DatabaseConfig {
	return DatabaseConfig{
		Driver:          "postgres",
		DSN:             GetPostgresDSN(host, user, password, dbname, port, ""),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Database wraps gorm.DB with pool introspection and a schema-migration entry
// point, following the Connection Pool & Transactions component.
type Database struct {
	*gorm.DB
	config DatabaseConfig
}

// NewDatabaseWrapper opens and wraps a Database for config.
func NewDatabaseWrapper(config DatabaseConfig) (*Database, error) {
	db, err := NewDatabase(config)
	if err != nil {
		return nil, err
	}
	return &Database{DB: db, config: config}, nil
}

func (d *Database) GetConfig() DatabaseConfig { return d.config }

// HealthCheck pings the underlying connection.
func (d *Database) HealthCheck() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// PoolStats exposes the underlying connection pool's live counters.
type PoolStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	WaitCount       int64
}

func (d *Database) PoolStats() (PoolStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return PoolStats{}, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return PoolStats{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
	}, nil
}

// WithTransaction runs fn inside a single database transaction, committing
// on success and rolling back if fn returns an error or panics.
func (d *Database) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
