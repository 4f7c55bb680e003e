package warehouse

import (
	"context"
	"database/sql"
	"fmt"
)

// sqlConn adapts a database/sql handle to Conn.
type sqlConn struct {
	db      *sql.DB
	dialect Dialect
	style   Placeholder
}

func (c *sqlConn) Dialect() Dialect { return c.dialect }

func (c *sqlConn) Query(ctx context.Context, query string, params map[string]any) (*Table, error) {
	q, args, err := Bind(query, params, c.style)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns: %w", ErrQuery, err)
	}

	t := &Table{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %w", ErrQuery, err)
		}
		for i, v := range vals {
			// drivers may reuse byte buffers between rows
			if b, ok := v.([]byte); ok {
				vals[i] = append([]byte(nil), b...)
			}
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return t, nil
}

func (c *sqlConn) Close() error {
	return c.db.Close()
}
