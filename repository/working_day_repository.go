package repository

import (
	"context"
	"fmt"
	"time"

	"ccloader/database"
	"ccloader/models"

	"github.com/jackc/pgx/v5"
)

// WorkingDayRepository tracks working days: the w01 state row maintained by
// the main Abacus batch and the w02 credit-card working days owned here.
type WorkingDayRepository struct {
	q querier
}

// NewWorkingDayRepository creates a working day repository on the pool
func NewWorkingDayRepository(db *database.DB) *WorkingDayRepository {
	return &WorkingDayRepository{q: db.Pool}
}

func newWorkingDayRepositoryWithTx(tx pgx.Tx) *WorkingDayRepository {
	return &WorkingDayRepository{q: tx}
}

// LatestState returns the most recent non-credit-card working day state, or
// nil when the table is empty.
func (r *WorkingDayRepository) LatestState(ctx context.Context) (*models.WorkingDayState, error) {
	query := `
		SELECT working_day, next_working_day
		FROM w01_working_day
		WHERE working_day = (SELECT MAX(working_day) FROM w01_working_day)
	`

	var state models.WorkingDayState
	err := r.q.QueryRow(ctx, query).Scan(&state.WorkingDay, &state.NextWorkingDay)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get working day state: %w", err)
	}

	return &state, nil
}

// EnsureWorkingDay registers the credit-card working day if it is not known
// yet and reports whether a new row was created.
func (r *WorkingDayRepository) EnsureWorkingDay(ctx context.Context, day time.Time) (bool, error) {
	query := `
		INSERT INTO w02_cc_working_day (working_day)
		VALUES ($1)
		ON CONFLICT (working_day) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, day)
	if err != nil {
		return false, fmt.Errorf("failed to register working day %s: %w", day.Format("2006-01-02"), err)
	}
	return tag.RowsAffected() > 0, nil
}
