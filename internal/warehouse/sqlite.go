package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/creditcast/internal/model"
)

// SQLiteConnector reads metering history from a local SQLite file, for
// offline use and tests. Credentials are not checked.
type SQLiteConnector struct {
	Path string
}

// Connect opens (creating if needed) the database at Path.
func (s SQLiteConnector) Connect(ctx context.Context, _ model.Credentials) (Conn, error) {
	l, err := OpenLocal(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Local is a SQLite-backed warehouse.
type Local struct {
	sqlConn
}

// OpenLocal opens or creates the local warehouse at path.
func OpenLocal(ctx context.Context, path string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating warehouse dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening local warehouse: %w", err)
	}
	if _, err := db.ExecContext(ctx, localSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Local{sqlConn{db: db, dialect: SQLite, style: Question}}, nil
}

// MeteringEvent is one row of warehouse metering history.
type MeteringEvent struct {
	Warehouse   string
	StartTime   time.Time
	EndTime     time.Time
	CreditsUsed float64
}

// InsertMetering appends events in a single transaction.
func (l *Local) InsertMetering(ctx context.Context, events []MeteringEvent) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO warehouse_metering_history
		(start_time, end_time, warehouse_name, credits_used) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.StartTime.UTC().Format(time.RFC3339),
			e.EndTime.UTC().Format(time.RFC3339),
			e.Warehouse,
			e.CreditsUsed,
		)
		if err != nil {
			return fmt.Errorf("inserting metering event: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of metering rows.
func (l *Local) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM warehouse_metering_history").Scan(&n)
	return n, err
}
