package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/theirongolddev/creditcast/internal/model"
)

// PostgresConnector connects to a PostgreSQL-compatible warehouse. Username,
// password and role from the credentials override whatever the DSN carries;
// the account identifier is ignored since the DSN names the host.
type PostgresConnector struct {
	DSN string
}

// Connect opens a pool and pings it.
func (p PostgresConnector) Connect(ctx context.Context, creds model.Credentials) (Conn, error) {
	cfg, err := pgxpool.ParseConfig(p.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing dsn: %w", ErrAuthentication, err)
	}
	if u := strings.TrimSpace(creds.Username); u != "" {
		cfg.ConnConfig.User = u
	}
	if creds.Password != "" {
		cfg.ConnConfig.Password = creds.Password
	}
	if r := strings.TrimSpace(creds.Role); r != "" {
		cfg.ConnConfig.RuntimeParams["role"] = r
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return &pgConn{pool: pool}, nil
}

type pgConn struct {
	pool *pgxpool.Pool
}

func (c *pgConn) Dialect() Dialect { return Postgres }

func (c *pgConn) Query(ctx context.Context, query string, params map[string]any) (*Table, error) {
	q, args, err := Bind(query, params, Dollar)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &Table{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		t.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %w", ErrQuery, err)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return t, nil
}

func (c *pgConn) Close() error {
	c.pool.Close()
	return nil
}
