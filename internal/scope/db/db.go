package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // driver: sqlite
)

// SQL drivers understood by Connect
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a database/sql handle and whatever owns its connections
type DB struct {
	*sql.DB
	driver string
	pool   *pgxpool.Pool
}

// Connect opens a database connection. Postgres goes through a pgx pool
// exposed as database/sql; sqlite uses the pure Go driver.
func Connect(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		// Test connection
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return &DB{DB: stdlib.OpenDBFromPool(pool), driver: driver, pool: pool}, nil

	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// One writer at a time avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping sqlite: %w", err)
		}
		return &DB{DB: sqlDB, driver: driver}, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// SQLiteDSN builds a sqlite DSN for a database file
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Driver returns the driver name
func (d *DB) Driver() string {
	return d.driver
}

// Close closes the database connection
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}
