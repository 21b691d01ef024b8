package repository

import (
	"context"
	"fmt"
	"time"

	"ccloader/database"

	"github.com/jackc/pgx/v5"
)

// LoadStateRepository maintains the single-row credit-card load flag. A
// pending flag with a recorded day tells the next service trigger to retry
// that day; a cleared flag means nothing is owed.
type LoadStateRepository struct {
	q querier
}

// NewLoadStateRepository creates a load state repository on the pool
func NewLoadStateRepository(db *database.DB) *LoadStateRepository {
	return &LoadStateRepository{q: db.Pool}
}

func newLoadStateRepositoryWithTx(tx pgx.Tx) *LoadStateRepository {
	return &LoadStateRepository{q: tx}
}

// MarkPending flags the given day as still waiting for a successful load.
func (r *LoadStateRepository) MarkPending(ctx context.Context, day time.Time) error {
	query := `UPDATE load_state SET load_cc = '1', date_load_cc = $1 WHERE id = 1`
	if _, err := r.q.Exec(ctx, query, day); err != nil {
		return fmt.Errorf("failed to mark load pending: %w", err)
	}
	return nil
}

// MarkDone clears the pending flag.
func (r *LoadStateRepository) MarkDone(ctx context.Context) error {
	query := `UPDATE load_state SET load_cc = '0', date_load_cc = NULL WHERE id = 1`
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to clear load flag: %w", err)
	}
	return nil
}

// Pending returns the flagged day, or nil when no load is pending.
// Used by operators and tests to inspect the retry protocol.
func (r *LoadStateRepository) Pending(ctx context.Context) (*time.Time, error) {
	query := `SELECT load_cc, date_load_cc FROM load_state WHERE id = 1`

	var flag string
	var day *time.Time
	if err := r.q.QueryRow(ctx, query).Scan(&flag, &day); err != nil {
		return nil, fmt.Errorf("failed to read load state: %w", err)
	}
	if flag != "1" {
		return nil, nil
	}
	return day, nil
}
