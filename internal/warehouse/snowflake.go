package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/theirongolddev/creditcast/internal/model"
)

const defaultLoginTimeout = 30 * time.Second

// SnowflakeConnector authenticates against a Snowflake account.
type SnowflakeConnector struct {
	LoginTimeout time.Duration
	Warehouse    string // optional virtual warehouse for the session
}

// Connect validates creds, opens a session and pings it so bad credentials
// surface here rather than on the first query.
func (s SnowflakeConnector) Connect(ctx context.Context, creds model.Credentials) (Conn, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w (%s)", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	timeout := s.LoginTimeout
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}

	cfg := sf.Config{
		Account:      strings.TrimSuffix(strings.TrimSpace(creds.Account), ".snowflakecomputing.com"),
		User:         strings.TrimSpace(creds.Username),
		Password:     creds.Password,
		Role:         strings.TrimSpace(creds.Role),
		Warehouse:    s.Warehouse,
		LoginTimeout: timeout,
		Application:  "creditcast",
	}
	dsn, err := sf.DSN(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	return &sqlConn{db: db, dialect: Snowflake, style: Question}, nil
}
