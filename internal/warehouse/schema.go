package warehouse

// localSchemaSQL mirrors the subset of Snowflake's
// account_usage.warehouse_metering_history that the usage query reads.
const localSchemaSQL = `
CREATE TABLE IF NOT EXISTS warehouse_metering_history (
    start_time      TEXT NOT NULL,
    end_time        TEXT NOT NULL,
    warehouse_name  TEXT NOT NULL,
    credits_used    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_metering_start ON warehouse_metering_history(start_time);
`
