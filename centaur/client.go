// Package centaur is the data access layer for the Centaur source ledger:
// the read-only snapshot views on the card system's SQL Server, and the SOAP
// service that triggers the remote delinquency computation.
package centaur

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"ccloader/models"

	_ "github.com/microsoft/go-mssqldb"
)

// Client reads the daily credit-card position from the Centaur views.
type Client struct {
	db *sql.DB
}

// NewClient opens a connection pool to the Centaur SQL Server instance.
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open centaur connection: %w", err)
	}
	return &Client{db: db}, nil
}

// NewClientWithDB wraps an existing connection, used by tests.
func NewClientWithDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// WorkingDay returns the business date the latest delinquency file was
// produced for. An absent or unparseable date is fatal: without a working day
// no load can be attributed to a day.
func (c *Client) WorkingDay(ctx context.Context) (time.Time, error) {
	row := c.db.QueryRowContext(ctx, `SELECT FILE_DATE FROM vw_CC_LastDLQ`)

	var fileDate string
	if err := row.Scan(&fileDate); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, fmt.Errorf("delinquency working day not available")
		}
		return time.Time{}, fmt.Errorf("failed to read delinquency working day: %w", err)
	}

	day, err := ParseCrownDate(fileDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delinquency working day %q: %w", fileDate, err)
	}
	return day, nil
}

// DailySnapshot returns the full credit-card position snapshot. Balance and
// payment columns stay raw text here; parsing tolerance is the normalizer's
// concern.
func (c *Client) DailySnapshot(ctx context.Context) ([]models.RawAccountRow, error) {
	query := `
		SELECT WORKING_DAY, ID_PRODUCT, AMOUNT_PAST_DUE, DATE_SINCE_PD_OL, DAYS_PAST_DUE, DELINQUENCY_AMOUNT_MP,
		       LAST_UNPAID_DUE_DATE_MP, MINIMUM_PAYMENT, OL_DA, OL_DPD, ACCOUNT_NUMBER, BRANCH_CODE, CARD_NUMBER,
		       CUSTOMER_NUMBER, SUM_OF_PAYMENTS, LAST_STATEMENT_BALANCE, CARD_LIMIT, ACCOUNT_CODE, ACCOUNT_CURRENCY,
		       ACCOUNT_SEQUENCE, ID_PRODUCT_TYPE, CARD_EXPIRE_DATE, CARD_CCY, NEXT_PAYMENT_DATE,
		       STANDART_INTEREST_RATE, PENALTY_INTEREST_RATE, CASHWITHDRAWAL_INTEREST_RATE,
		       LAST_BALANCE_SIGN, PERIOD
		FROM vw_CC_AbacusData`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily snapshot: %w", err)
	}
	defer rows.Close()

	var snapshot []models.RawAccountRow
	for rows.Next() {
		var r models.RawAccountRow
		err := rows.Scan(
			&r.WorkingDay,
			&r.ProductID,
			&r.AmountPastDue,
			&r.DateSincePastDueOL,
			&r.DaysPastDue,
			&r.DelinquencyAmountMP,
			&r.LastUnpaidDueDateMP,
			&r.MinimumPayment,
			&r.OverlimitAmount,
			&r.OverlimitDaysPastDue,
			&r.AccountNumber,
			&r.BranchCode,
			&r.CardNumber,
			&r.CustomerNumber,
			&r.SumOfPayments,
			&r.LastStatementBalance,
			&r.CardLimit,
			&r.AccountCode,
			&r.AccountCurrency,
			&r.AccountSequence,
			&r.ProductTypeID,
			&r.CardExpireDate,
			&r.CardCurrency,
			&r.NextPaymentDate,
			&r.StandardInterestRate,
			&r.PenaltyInterestRate,
			&r.CashWithdrawalInterestRate,
			&r.LastBalanceSign,
			&r.Period,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshot = append(snapshot, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily snapshot: %w", err)
	}

	return snapshot, nil
}

// ParseCrownDate parses the card system's YYYYMMDD file-date format.
func ParseCrownDate(value string) (time.Time, error) {
	if len(value) < 8 {
		return time.Time{}, fmt.Errorf("crown date too short: %q", value)
	}
	year, err := strconv.Atoi(value[0:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid crown date year: %w", err)
	}
	month, err := strconv.Atoi(value[4:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid crown date month: %w", err)
	}
	day, err := strconv.Atoi(value[6:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid crown date day: %w", err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("crown date out of range: %q", value)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
