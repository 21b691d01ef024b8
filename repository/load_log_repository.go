package repository

import (
	"context"
	"fmt"
	"time"

	"ccloader/database"
	"ccloader/models"

	"github.com/jackc/pgx/v5"
)

// LoadLogRepository is the l01 append-only audit log. The latest entry per
// (module, day) also serves as the readiness and idempotency guard, so this
// repository always runs directly on the pool: a failed run must still be
// able to log after its staging transaction rolled back.
type LoadLogRepository struct {
	q querier
}

// NewLoadLogRepository creates a load log repository on the pool
func NewLoadLogRepository(db *database.DB) *LoadLogRepository {
	return &LoadLogRepository{q: db.Pool}
}

// Append writes one run record and fills in its generated id.
func (r *LoadLogRepository) Append(ctx context.Context, entry *models.LoadLogEntry) error {
	query := `
		INSERT INTO l01_log_abacus (load_date, module, start_time, end_time, no_records, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING autoid
	`

	err := r.q.QueryRow(ctx, query,
		entry.LoadDate,
		entry.Module,
		entry.Start,
		entry.End,
		entry.NoRecords,
		entry.Status,
		entry.Error,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("failed to append load log for %s: %w", entry.Module, err)
	}
	return nil
}

// UpstreamFinished reports whether the upstream batch posted a successful
// FIN entry for the given working day.
func (r *LoadLogRepository) UpstreamFinished(ctx context.Context, day time.Time) (bool, error) {
	status, found, err := r.latestStatus(ctx, models.ModuleFin, day)
	if err != nil {
		return false, err
	}
	return found && status == models.LogStatusOK, nil
}

// IsDayFinished reports whether the module's latest entry for the day is a
// success. A trailing failed entry does not count: the day may be retried.
func (r *LoadLogRepository) IsDayFinished(ctx context.Context, module string, day time.Time) (bool, error) {
	status, found, err := r.latestStatus(ctx, module, day)
	if err != nil {
		return false, err
	}
	return found && status == models.LogStatusOK, nil
}

// History returns the module's log entries, newest first.
func (r *LoadLogRepository) History(ctx context.Context, module string, limit int) ([]models.LoadLogEntry, error) {
	query := `
		SELECT autoid, load_date, module, start_time, end_time, no_records, status, error
		FROM l01_log_abacus
		WHERE module = $1
		ORDER BY start_time DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, module, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load log history: %w", err)
	}
	defer rows.Close()

	var entries []models.LoadLogEntry
	for rows.Next() {
		var e models.LoadLogEntry
		if err := rows.Scan(&e.ID, &e.LoadDate, &e.Module, &e.Start, &e.End, &e.NoRecords, &e.Status, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan load log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read load log history: %w", err)
	}

	return entries, nil
}

func (r *LoadLogRepository) latestStatus(ctx context.Context, module string, day time.Time) (string, bool, error) {
	query := `
		SELECT status
		FROM l01_log_abacus
		WHERE module = $1 AND load_date = $2
		ORDER BY autoid DESC
		LIMIT 1
	`

	var status string
	err := r.q.QueryRow(ctx, query, module, day).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read load log status for %s: %w", module, err)
	}
	return status, true, nil
}
