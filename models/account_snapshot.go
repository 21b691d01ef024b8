package models

import (
	"time"
)

// RawAccountRow is one credit-card product position exactly as the Centaur
// daily snapshot view delivers it. The balance and payment fields arrive as
// text and are parsed during normalization.
type RawAccountRow struct {
	WorkingDay               time.Time `db:"working_day"`
	ProductID                int64     `db:"id_product"`
	ProductTypeID            int64     `db:"id_product_type"`
	CustomerNumber           string    `db:"customer_number"`
	AccountNumber            string    `db:"account_number"`
	AccountSequence          int       `db:"account_sequence"`
	AccountCode              string    `db:"account_code"`
	AccountCurrency          string    `db:"account_currency"`
	BranchCode               string    `db:"branch_code"`
	CardNumber               string    `db:"card_number"`
	CardCurrency             string    `db:"card_ccy"`
	CardExpireDate           time.Time `db:"card_expire_date"`
	CardLimit                float64   `db:"card_limit"`
	AmountPastDue            float64   `db:"amount_past_due"`
	DaysPastDue              int       `db:"days_past_due"`
	DateSincePastDueOL       time.Time `db:"date_since_pd_ol"`
	DelinquencyAmountMP      float64   `db:"delinquency_amount_mp"`
	LastUnpaidDueDateMP      time.Time `db:"last_unpaid_due_date_mp"`
	MinimumPayment           float64   `db:"minimum_payment"`
	OverlimitAmount          float64   `db:"ol_da"`
	OverlimitDaysPastDue     int       `db:"ol_dpd"`
	NextPaymentDate          time.Time `db:"next_payment_date"`
	StandardInterestRate     float64   `db:"standart_interest_rate"`
	PenaltyInterestRate      float64   `db:"penalty_interest_rate"`
	CashWithdrawalInterestRate float64 `db:"cashwithdrawal_interest_rate"`
	SumOfPayments            string    `db:"sum_of_payments"`
	LastStatementBalance     string    `db:"last_statement_balance"`
	LastBalanceSign          string    `db:"last_balance_sign"`
	Period                   string    `db:"period"`
}

// AccountSnapshotRow is a normalized snapshot row: raw text fields parsed,
// the statement balance sign-corrected, and the derived fields the staging
// table needs filled in with deterministic defaults. Identity is
// (ProductID, WorkingDay). The reconciler later sets DateSincePastDue and
// NumberOfPaymentsPastDue for delinquent products; everything else is
// immutable once normalized.
type AccountSnapshotRow struct {
	WorkingDay               time.Time `db:"working_day"`
	ProductID                int64     `db:"id_product"`
	ProductTypeID            int64     `db:"id_product_type"`
	CustomerNumber           string    `db:"customer_number"`
	AccountNumber            string    `db:"account_number"`
	AccountSequence          int       `db:"account_sequence"`
	AccountCode              string    `db:"account_code"`
	AccountCurrency          string    `db:"account_currency"`
	BranchCode               string    `db:"branch_code"`
	CardNumber               string    `db:"card_number"`
	CardCurrency             string    `db:"card_ccy"`
	CardExpireDate           time.Time `db:"card_expire_date"`
	CardLimit                float64   `db:"card_limit"`
	AmountPastDue            float64   `db:"amount_past_due"`
	DaysPastDue              int       `db:"days_past_due"`
	DateSincePastDueOL       time.Time `db:"date_since_pd_ol"`
	DelinquencyAmountMP      float64   `db:"delinquency_amount_mp"`
	LastUnpaidDueDateMP      time.Time `db:"last_unpaid_due_date_mp"`
	MinimumPayment           float64   `db:"minimum_payment"`
	OverlimitAmount          float64   `db:"ol_da"`
	OverlimitDaysPastDue     int       `db:"ol_dpd"`
	NextPaymentDate          time.Time `db:"next_payment_date"`
	StandardInterestRate     float64   `db:"standart_interest_rate"`
	PenaltyInterestRate      float64   `db:"penalty_interest_rate"`
	CashWithdrawalInterestRate float64 `db:"cashwithdrawal_interest_rate"`

	// Parsed and sign-corrected from the raw row.
	SumOfPayments        float64 `db:"sum_of_payments"`
	LastStatementBalance float64 `db:"last_statement_balance"`

	// Working fields used only for reconciliation; not persisted to staging.
	Period int

	// Derived fields added by the normalizer / reconciler.
	CardBalance             float64    `db:"card_balance"`
	NumberOfPaymentsPastDue int        `db:"number_of_payments_past_due"`
	DateSincePastDue        *time.Time `db:"date_since_past_due"`
	DpdHO                   int        `db:"dpd_ho"`
	IsJoint                 bool       `db:"is_joint"`
}
