// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver implements Driver for SQLite
type SQLiteDriver struct {
	db *sql.DB
}

// Connect opens the database file. The connection is query-only so that a
// statement slipping past the guard still cannot write.
func (d *SQLiteDriver) Connect(params ConnectParams) error {
	path := strings.TrimPrefix(params.Database, "sqlite://")
	path = strings.TrimPrefix(path, "file:")
	if path == "" {
		return WrapConnectionError(fmt.Errorf("sqlite database path is required"))
	}

	dsn := fmt.Sprintf("file:%s?_query_only=1&_busy_timeout=10000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return WrapConnectionError(err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *SQLiteDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Query runs a read-only statement
func (d *SQLiteDriver) Query(ctx context.Context, statement string, maxRows int) (*Response, error) {
	return queryReadOnly(ctx, d.db, statement, maxRows)
}

// Ping checks if database is reachable
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}

// Tables returns a list of tables
func (d *SQLiteDriver) Tables(ctx context.Context) ([]string, error) {
	if d.db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	rows, err := d.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, WrapQueryError(err)
	}
	return scanNames(rows)
}
