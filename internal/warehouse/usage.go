package warehouse

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/model"
)

// HistoryDays is how many of the most recent distinct days the usage query returns.
const HistoryDays = 365

// Default metering tables per dialect.
const (
	SnowflakeMeteringTable = "snowflake.account_usage.warehouse_metering_history"
	LocalMeteringTable     = "warehouse_metering_history"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// UsageQuery returns the daily usage aggregation for dialect d. An empty table
// selects the dialect's default metering table.
//
// The inner query keeps the most recent :days distinct days; the outer one
// orders them ascending for the pipeline.
func UsageQuery(d Dialect, table string) (string, error) {
	if table == "" {
		table = LocalMeteringTable
		if d == Snowflake {
			table = SnowflakeMeteringTable
		}
	}
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("%w: invalid metering table name %q", ErrQuery, table)
	}

	switch d {
	case Snowflake:
		return `select ds, y from (
    select start_time::date as ds, sum(credits_used::float) as y
    from ` + table + `
    group by 1
    order by 1 desc
    limit :days
) order by ds asc`, nil
	case Postgres:
		return `select ds, y from (
    select start_time::date as ds, sum(credits_used::float8) as y
    from ` + table + `
    group by 1
    order by 1 desc
    limit :days
) recent order by ds asc`, nil
	case SQLite:
		return `select ds, y from (
    select date(start_time) as ds, sum(credits_used) as y
    from ` + table + `
    group by 1
    order by 1 desc
    limit :days
) order by ds asc`, nil
	default:
		return "", fmt.Errorf("%w: unsupported dialect %q", ErrQuery, d)
	}
}

// UsageOptions tunes FetchDailyUsage.
type UsageOptions struct {
	Table string
	Days  int
}

// FetchDailyUsage runs the usage query on conn and coerces the result.
func FetchDailyUsage(ctx context.Context, conn Conn, opts UsageOptions) ([]model.UsageRecord, error) {
	query, err := UsageQuery(conn.Dialect(), opts.Table)
	if err != nil {
		return nil, err
	}
	days := opts.Days
	if days <= 0 {
		days = HistoryDays
	}

	t, err := conn.Query(ctx, query, map[string]any{"days": days})
	if err != nil {
		return nil, err
	}
	return ParseUsage(t)
}

// ParseUsage converts a (ds, y) table into usage records. Column names match
// case-insensitively since Snowflake upper-cases unquoted aliases.
func ParseUsage(t *Table) ([]model.UsageRecord, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil result", ErrQuery)
	}
	dsIdx, yIdx := -1, -1
	for i, c := range t.Columns {
		switch strings.ToLower(c) {
		case "ds":
			dsIdx = i
		case "y":
			yIdx = i
		}
	}
	if dsIdx < 0 || yIdx < 0 {
		return nil, fmt.Errorf("%w: malformed data: expected columns ds and y, got %v", ErrQuery, t.Columns)
	}

	records := make([]model.UsageRecord, 0, len(t.Rows))
	for n, row := range t.Rows {
		if len(row) <= dsIdx || len(row) <= yIdx {
			return nil, fmt.Errorf("%w: malformed data: row %d has %d cells", ErrQuery, n, len(row))
		}
		d, err := toDate(row[dsIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: malformed data: row %d date: %w", ErrQuery, n, err)
		}
		y, err := toFloat(row[yIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: malformed data: row %d credits: %w", ErrQuery, n, err)
		}
		if y < 0 || math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("%w: malformed data: row %d credits %v", ErrQuery, n, y)
		}
		records = append(records, model.UsageRecord{Date: d, CreditsUsed: y})
	}
	return records, nil
}

func toDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return dates.Day(x), nil
	case string:
		return parseDateString(x)
	case []byte:
		return parseDateString(string(x))
	case nil:
		return time.Time{}, fmt.Errorf("null date")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(dates.Layout) {
		if d, err := dates.Parse(s[:len(dates.Layout)]); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	case nil:
		return 0, fmt.Errorf("null value")
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
