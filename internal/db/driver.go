// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSHConfig *SSHConfig // Optional SSH tunnel config
}

// Driver defines the interface for database operations
type Driver interface {
	Connect(params ConnectParams) error
	Close() error
	// Query runs statement in a read-only transaction and stops reading
	// after maxRows rows (0 means unbounded)
	Query(ctx context.Context, statement string, maxRows int) (*Response, error)
	Ping(ctx context.Context) error
	Type() DriverType
	Tables(ctx context.Context) ([]string, error)
}

// NewDriver creates a new driver instance by type
func NewDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case Postgres:
		return &PostgresDriver{}, nil
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown driver type: %s", driverType)
	}
}

// queryReadOnly executes a SELECT inside a read-only transaction
func queryReadOnly(ctx context.Context, db *sql.DB, statement string, maxRows int) (*Response, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}

	start := time.Now()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, WrapQueryError(err)
	}
	// Nothing is ever committed
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, statement)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}

	results := [][]any{}
	for rows.Next() {
		if maxRows > 0 && len(results) >= maxRows {
			break
		}

		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		results = append(results, values)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	return &Response{
		Columns:       columns,
		Rows:          results,
		ExecutionTime: time.Since(start),
	}, nil
}

// normalizeValue turns driver byte slices into text; everything else keeps
// its scanned type
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// scanNames reads a single text column
func scanNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, WrapQueryError(err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
