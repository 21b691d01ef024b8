package repository

import (
	"context"
	"fmt"
	"time"

	"ccloader/database"
	"ccloader/models"

	"github.com/jackc/pgx/v5"
)

// ScheduleRepository reads the durable t18 payment-schedule history and
// manages the atmp_t18 staging table.
type ScheduleRepository struct {
	q querier
}

// NewScheduleRepository creates a schedule repository on the pool
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{q: db.Pool}
}

func newScheduleRepositoryWithTx(tx pgx.Tx) *ScheduleRepository {
	return &ScheduleRepository{q: tx}
}

var scheduleColumns = []string{
	"working_day",
	"id_product",
	"customer_number",
	"principal_payment_amount",
	"principal_payment_date",
	"interest_payment_amount",
	"interest_payment_date",
	"minimum_payment",
	"penalty_interest_rate",
	"penalty_interest_amount",
	"period",
	"due_date_dlq",
	"last_sum_of_payment",
	"is_pastdue",
}

// PriorSchedule returns the full schedule of the most recent credit-card
// working day strictly before the given day, ordered by period ascending.
// The reconciler's aggregates depend on that ordering.
func (r *ScheduleRepository) PriorSchedule(ctx context.Context, before time.Time) ([]models.ScheduleRow, error) {
	query := `
		SELECT working_day, id_product, customer_number, principal_payment_amount, principal_payment_date,
		       interest_payment_amount, interest_payment_date, minimum_payment, penalty_interest_rate,
		       penalty_interest_amount, period, due_date_dlq, last_sum_of_payment, is_pastdue
		FROM t18_cc_payment_schedule
		WHERE working_day = (
			SELECT MAX(working_day) FROM w02_cc_working_day WHERE working_day < $1
		)
		ORDER BY period ASC
	`

	rows, err := r.q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query prior schedule: %w", err)
	}
	defer rows.Close()

	var schedule []models.ScheduleRow
	for rows.Next() {
		var s models.ScheduleRow
		err := rows.Scan(
			&s.WorkingDay,
			&s.ProductID,
			&s.CustomerNumber,
			&s.PrincipalPaymentAmount,
			&s.PrincipalPaymentDate,
			&s.InterestPaymentAmount,
			&s.InterestPaymentDate,
			&s.MinimumPayment,
			&s.PenaltyInterestRate,
			&s.PenaltyInterestAmount,
			&s.Period,
			&s.DueDate,
			&s.LastSumOfPayment,
			&s.IsPastDue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		schedule = append(schedule, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prior schedule: %w", err)
	}

	return schedule, nil
}

// InsertHistory writes schedule rows into the durable t18 table. The daily
// load itself only stages; this supports backfills and tests.
func (r *ScheduleRepository) InsertHistory(ctx context.Context, rows []models.ScheduleRow) (int64, error) {
	inserted, err := r.q.CopyFrom(ctx, pgx.Identifier{"t18_cc_payment_schedule"}, scheduleColumns, copyFromScheduleRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to insert schedule history: %w", err)
	}
	return inserted, nil
}

// Clear empties the staging table using the given strategy.
func (r *ScheduleRepository) Clear(ctx context.Context, strategy models.ClearStrategy) error {
	query := `DELETE FROM atmp_t18_cc_payment_schedule`
	if strategy == models.ClearTruncate {
		query = `TRUNCATE TABLE atmp_t18_cc_payment_schedule`
	}
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to %s schedule staging: %w", strategy, err)
	}
	return nil
}

// BulkInsert copies the reconciled schedule rows into staging.
func (r *ScheduleRepository) BulkInsert(ctx context.Context, rows []models.ScheduleRow) (int64, error) {
	inserted, err := r.q.CopyFrom(ctx, pgx.Identifier{"atmp_t18_cc_payment_schedule"}, scheduleColumns, copyFromScheduleRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert schedule staging: %w", err)
	}
	return inserted, nil
}

func copyFromScheduleRows(rows []models.ScheduleRow) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{
			row.WorkingDay,
			row.ProductID,
			row.CustomerNumber,
			row.PrincipalPaymentAmount,
			row.PrincipalPaymentDate,
			row.InterestPaymentAmount,
			row.InterestPaymentDate,
			row.MinimumPayment,
			row.PenaltyInterestRate,
			row.PenaltyInterestAmount,
			row.Period,
			row.DueDate,
			row.LastSumOfPayment,
			row.IsPastDue,
		}, nil
	})
}
