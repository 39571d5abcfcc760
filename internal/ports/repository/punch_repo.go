package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// uniqueViolation is the postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

const punchColumns = `id, user_id, punched_at, kind, latitude, longitude,
	sync_status, sync_retry_count, email_status, email_retry_count`

// PunchRepository is the concrete implementation for a PostgreSQL database.
type PunchRepository struct {
	DB *sql.DB
}

// NewPunchRepository create new instance
func NewPunchRepository(db *sql.DB) Repository {
	return &PunchRepository{DB: db}
}

// CreatePunch stores a new punch event. punch_date is the calendar date of
// Timestamp in its own location, so callers pass times in the service zone.
// A second punch of the same kind on the same date fails with
// model.ErrAlreadyRecorded.
func (r *PunchRepository) CreatePunch(ctx context.Context, p model.PunchEvent) error {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.userId", p.UserID),
		attribute.String("app.punchKind", string(p.Kind)),
	)

	query := `INSERT INTO punch_events (id, user_id, punched_at, punch_date, kind, latitude, longitude,
	              sync_status, sync_retry_count, email_status, email_retry_count)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, 0)`

	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.Timestamp, punchDate(p.Timestamp), p.Kind, p.Location.Latitude, p.Location.Longitude,
		model.StatusPending, model.StatusPending,
	)
	if err != nil {
		return writeError("insert", err)
	}
	return nil
}

// GetPunch fetches a single punch by its ID.
func (r *PunchRepository) GetPunch(ctx context.Context, id string) (*model.PunchEvent, error) {
	query := `SELECT ` + punchColumns + ` FROM punch_events WHERE id = $1`

	p, err := scanPunch(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPunchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get punch: %w", err)
	}
	return p, nil
}

// ListPunches get punches of a user inside [from, to)
func (r *PunchRepository) ListPunches(ctx context.Context, userID string, from, to time.Time) ([]model.PunchEvent, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT ` + punchColumns + `
	          FROM punch_events
	          WHERE user_id = $1 AND punched_at >= $2 AND punched_at < $3
	          ORDER BY punched_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var out []model.PunchEvent
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdatePunch rewrites time, kind and location of an existing punch. Like
// CreatePunch it fails with model.ErrAlreadyRecorded on a same-day duplicate.
func (r *PunchRepository) UpdatePunch(ctx context.Context, p model.PunchEvent) error {
	query := `UPDATE punch_events
	          SET punched_at = $1,
	              punch_date = $2,
	              kind = $3,
	              latitude = $4,
	              longitude = $5
	          WHERE id = $6`

	res, err := r.DB.ExecContext(ctx, query,
		p.Timestamp, punchDate(p.Timestamp), p.Kind, p.Location.Latitude, p.Location.Longitude, p.ID,
	)
	if err != nil {
		return writeError("update", err)
	}
	return expectOneRow(res)
}

// DeletePunch removes a punch.
func (r *PunchRepository) DeletePunch(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM punch_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete punch: %w", err)
	}
	return expectOneRow(res)
}

// UpdateSyncStatus updates the status and retry count of the timesheet delivery.
func (r *PunchRepository) UpdateSyncStatus(ctx context.Context, id string, status model.SyncStatus, retryCount int) error {
	query := `UPDATE punch_events
	          SET sync_status = $1,
	              sync_retry_count = $2
	          WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

// UpdateEmailStatus updates the status and retry count for an email-related job.
func (r *PunchRepository) UpdateEmailStatus(ctx context.Context, id string, status model.SyncStatus, retryCount int) error {
	query := `UPDATE punch_events SET email_status = $1, email_retry_count = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPunch(s scanner) (*model.PunchEvent, error) {
	p := &model.PunchEvent{}
	err := s.Scan(
		&p.ID, &p.UserID, &p.Timestamp, &p.Kind, &p.Location.Latitude, &p.Location.Longitude,
		&p.SyncStatus, &p.SyncRetryCount, &p.EmailStatus, &p.EmailRetryCount,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func punchDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func writeError(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrAlreadyRecorded
	}
	return fmt.Errorf("failed to %s punch: %w", action, err)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPunchNotFound
	}
	return nil
}
