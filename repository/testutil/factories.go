package testutil

import (
	"time"

	"ccloader/models"
)

// Day builds a date at midnight UTC, the granularity working days are kept at.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SnapshotRowOption configures an account snapshot row
type SnapshotRowOption func(*models.AccountSnapshotRow)

// NewSnapshotRow creates an account snapshot row with sensible defaults
func NewSnapshotRow(workingDay time.Time, opts ...SnapshotRowOption) *models.AccountSnapshotRow {
	row := &models.AccountSnapshotRow{
		WorkingDay:      workingDay,
		ProductID:       4000001,
		ProductTypeID:   77,
		CustomerNumber:  "1000001",
		AccountNumber:   "220010000011",
		AccountSequence: 1,
		AccountCode:     "CC",
		AccountCurrency: "USD",
		BranchCode:      "001",
		CardNumber:      "5199000011112222",
		CardCurrency:    "USD",
		CardExpireDate:  workingDay.AddDate(2, 0, 0),
		CardLimit:       5000,
		NextPaymentDate: workingDay.AddDate(0, 1, 0),
	}
	for _, opt := range opts {
		opt(row)
	}
	return row
}

// WithProduct sets the product identifier
func WithProduct(id int64) SnapshotRowOption {
	return func(r *models.AccountSnapshotRow) {
		r.ProductID = id
	}
}

// WithDaysPastDue sets the delinquency counter
func WithDaysPastDue(days int) SnapshotRowOption {
	return func(r *models.AccountSnapshotRow) {
		r.DaysPastDue = days
	}
}

// WithBalances sets the statement balance, payment sum and derived card balance
func WithBalances(lastStatement, sumOfPayments float64) SnapshotRowOption {
	return func(r *models.AccountSnapshotRow) {
		r.LastStatementBalance = lastStatement
		r.SumOfPayments = sumOfPayments
		r.CardBalance = lastStatement - sumOfPayments
	}
}

// ScheduleRowOption configures a payment schedule row
type ScheduleRowOption func(*models.ScheduleRow)

// NewScheduleRow creates a payment schedule row with sensible defaults
func NewScheduleRow(workingDay time.Time, opts ...ScheduleRowOption) models.ScheduleRow {
	row := models.ScheduleRow{
		WorkingDay:           workingDay,
		ProductID:            4000001,
		CustomerNumber:       "1000001",
		PrincipalPaymentDate: workingDay,
		InterestPaymentDate:  workingDay,
		DueDate:              workingDay,
		Period:               1,
		IsPastDue:            models.PastDueFlagClear,
	}
	for _, opt := range opts {
		opt(&row)
	}
	return row
}

// WithScheduleProduct sets the product identifier on a schedule row
func WithScheduleProduct(id int64) ScheduleRowOption {
	return func(r *models.ScheduleRow) {
		r.ProductID = id
	}
}

// WithPeriod sets the billing period
func WithPeriod(period int) ScheduleRowOption {
	return func(r *models.ScheduleRow) {
		r.Period = period
	}
}

// WithPayments sets the payment amounts carried on the row
func WithPayments(amount, minimum, lastSum float64) ScheduleRowOption {
	return func(r *models.ScheduleRow) {
		r.PrincipalPaymentAmount = amount
		r.MinimumPayment = minimum
		r.LastSumOfPayment = lastSum
	}
}

// NewLogEntry creates a load log entry with sensible defaults
func NewLogEntry(module string, loadDate time.Time, status string) *models.LoadLogEntry {
	start := loadDate.Add(2 * time.Hour)
	return &models.LoadLogEntry{
		LoadDate:  loadDate,
		Module:    module,
		Start:     start,
		End:       start.Add(5 * time.Minute),
		NoRecords: 100,
		Status:    status,
	}
}
