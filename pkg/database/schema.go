package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS punch_events (
	id                UUID PRIMARY KEY,
	user_id           TEXT NOT NULL,
	punched_at        TIMESTAMPTZ NOT NULL,
	punch_date        DATE NOT NULL,
	kind              TEXT NOT NULL,
	latitude          DOUBLE PRECISION NOT NULL,
	longitude         DOUBLE PRECISION NOT NULL,
	sync_status       TEXT NOT NULL DEFAULT 'PENDING',
	sync_retry_count  INT NOT NULL DEFAULT 0,
	email_status      TEXT NOT NULL DEFAULT 'PENDING',
	email_retry_count INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS punch_events_user_time_idx ON punch_events (user_id, punched_at);
CREATE UNIQUE INDEX IF NOT EXISTS punch_events_user_day_kind_key ON punch_events (user_id, punch_date, kind);
`

// EnsureSchema creates the tables the service needs if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
