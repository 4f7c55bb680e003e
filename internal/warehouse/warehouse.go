// Package warehouse connects to the analytical store holding credit metering
// history and runs parameterized queries against it.
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/creditcast/internal/model"
)

var (
	// ErrAuthentication indicates missing or rejected credentials.
	ErrAuthentication = errors.New("warehouse: authentication failed")
	// ErrQuery indicates a failed query or a result that could not be read.
	ErrQuery = errors.New("warehouse: query failed")
	// ErrMissingCredentials is the authentication failure for empty fields,
	// caught before any connection attempt.
	ErrMissingCredentials = fmt.Errorf("%w: missing connection details", ErrAuthentication)
)

// Dialect names the SQL flavor a connection speaks.
type Dialect string

// Supported dialects.
const (
	Snowflake Dialect = "snowflake"
	Postgres  Dialect = "postgres"
	SQLite    Dialect = "sqlite"
)

// Table is a tabular query result. Cell values are whatever the driver returns.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Conn is an authenticated warehouse session.
type Conn interface {
	Dialect() Dialect
	// Query runs sql with named placeholders (:name or %(name)s) bound from params.
	Query(ctx context.Context, sql string, params map[string]any) (*Table, error)
	Close() error
}

// Connector opens authenticated sessions.
type Connector interface {
	Connect(ctx context.Context, creds model.Credentials) (Conn, error)
}
