package models

import (
	"time"
)

// Past-due flag values carried verbatim to the staging table.
const (
	PastDueFlagSet   = "1"
	PastDueFlagClear = "0"
)

// ScheduleRow is one payment-schedule installment for a product at a given
// billing period. Identity is (ProductID, WorkingDay, Period). Rows for the
// current working day are produced by the reconciler from the previous
// working day's schedule and replace the staging contents wholesale.
type ScheduleRow struct {
	WorkingDay             time.Time `db:"working_day"`
	ProductID              int64     `db:"id_product"`
	CustomerNumber         string    `db:"customer_number"`
	PrincipalPaymentAmount float64   `db:"principal_payment_amount"`
	PrincipalPaymentDate   time.Time `db:"principal_payment_date"`
	InterestPaymentAmount  float64   `db:"interest_payment_amount"`
	InterestPaymentDate    time.Time `db:"interest_payment_date"`
	MinimumPayment         float64   `db:"minimum_payment"`
	PenaltyInterestRate    float64   `db:"penalty_interest_rate"`
	PenaltyInterestAmount  float64   `db:"penalty_interest_amount"`
	Period                 int       `db:"period"`
	DueDate                time.Time `db:"due_date_dlq"`
	LastSumOfPayment       float64   `db:"last_sum_of_payment"`
	IsPastDue              string    `db:"is_pastdue"`
}

// ProductAggregate is the running state of a single product's reconciliation
// pass, reflecting the last schedule row processed in ascending period order.
type ProductAggregate struct {
	LastPaymentAmount  float64
	LastMinimumPayment float64
	LastSumOfPayment   float64
	LastPeriod         int
	LastDueDate        time.Time
	PaymentsPastDue    int
}
