package repository

import (
	"context"
	"fmt"

	"ccloader/database"
	"ccloader/models"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepository manages the atmp_t17 snapshot staging table.
type SnapshotRepository struct {
	q querier
}

// NewSnapshotRepository creates a snapshot staging repository on the pool
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{q: db.Pool}
}

func newSnapshotRepositoryWithTx(tx pgx.Tx) *SnapshotRepository {
	return &SnapshotRepository{q: tx}
}

// The period and last-balance-sign working fields exist only for
// reconciliation and are not persisted.
var snapshotColumns = []string{
	"working_day",
	"id_product",
	"id_product_type",
	"customer_number",
	"account_number",
	"account_sequence",
	"account_code",
	"account_currency",
	"branch_code",
	"card_number",
	"card_ccy",
	"card_expire_date",
	"card_limit",
	"amount_past_due",
	"days_past_due",
	"date_since_pd_ol",
	"delinquency_amount_mp",
	"last_unpaid_due_date_mp",
	"minimum_payment",
	"ol_da",
	"ol_dpd",
	"next_payment_date",
	"standart_interest_rate",
	"penalty_interest_rate",
	"cashwithdrawal_interest_rate",
	"sum_of_payments",
	"last_statement_balance",
	"card_balance",
	"number_of_payments_past_due",
	"date_since_past_due",
	"dpd_ho",
	"is_joint",
}

// Clear empties the staging table. Truncate is reserved for service runs
// that own the table; manual runs delete.
func (r *SnapshotRepository) Clear(ctx context.Context, strategy models.ClearStrategy) error {
	query := `DELETE FROM atmp_t17_dpd_credit_cards`
	if strategy == models.ClearTruncate {
		query = `TRUNCATE TABLE atmp_t17_dpd_credit_cards`
	}
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to %s snapshot staging: %w", strategy, err)
	}
	return nil
}

// BulkInsert copies the normalized snapshot rows into staging.
func (r *SnapshotRepository) BulkInsert(ctx context.Context, rows []*models.AccountSnapshotRow) (int64, error) {
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{
			row.WorkingDay,
			row.ProductID,
			row.ProductTypeID,
			row.CustomerNumber,
			row.AccountNumber,
			row.AccountSequence,
			row.AccountCode,
			row.AccountCurrency,
			row.BranchCode,
			row.CardNumber,
			row.CardCurrency,
			row.CardExpireDate,
			row.CardLimit,
			row.AmountPastDue,
			row.DaysPastDue,
			row.DateSincePastDueOL,
			row.DelinquencyAmountMP,
			row.LastUnpaidDueDateMP,
			row.MinimumPayment,
			row.OverlimitAmount,
			row.OverlimitDaysPastDue,
			row.NextPaymentDate,
			row.StandardInterestRate,
			row.PenaltyInterestRate,
			row.CashWithdrawalInterestRate,
			row.SumOfPayments,
			row.LastStatementBalance,
			row.CardBalance,
			row.NumberOfPaymentsPastDue,
			row.DateSincePastDue,
			row.DpdHO,
			row.IsJoint,
		}, nil
	})

	inserted, err := r.q.CopyFrom(ctx, pgx.Identifier{"atmp_t17_dpd_credit_cards"}, snapshotColumns, src)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert snapshot staging: %w", err)
	}
	return inserted, nil
}
