package service

import (
	"strconv"

	"ccloader/models"

	log "github.com/sirupsen/logrus"
)

// Normalize converts the raw Centaur snapshot into staging-shaped rows. It
// parses the textual balance fields, applies the last-balance sign
// correction, computes the card balance and fills the derived fields with
// deterministic defaults. Pure over its input; the returned rows are new.
//
// Malformed numeric text degrades to 0 instead of failing the batch. That is
// a deliberate policy carried over from the source system: a single bad row
// must not block the day's load, even though it can skew balances.
func Normalize(raw []models.RawAccountRow) []*models.AccountSnapshotRow {
	rows := make([]*models.AccountSnapshotRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, normalizeRow(r))
	}
	return rows
}

func normalizeRow(r models.RawAccountRow) *models.AccountSnapshotRow {
	lsb := parseAmount(r.LastStatementBalance, "last_statement_balance", r.ProductID)
	sop := parseAmount(r.SumOfPayments, "sum_of_payments", r.ProductID)

	// The statement balance arrives unsigned; a non-zero sign indicator
	// means it is owed, not held.
	if r.LastBalanceSign != "0" {
		lsb = -lsb
	}

	return &models.AccountSnapshotRow{
		WorkingDay:                 r.WorkingDay,
		ProductID:                  r.ProductID,
		ProductTypeID:              r.ProductTypeID,
		CustomerNumber:             r.CustomerNumber,
		AccountNumber:              r.AccountNumber,
		AccountSequence:            r.AccountSequence,
		AccountCode:                r.AccountCode,
		AccountCurrency:            r.AccountCurrency,
		BranchCode:                 r.BranchCode,
		CardNumber:                 r.CardNumber,
		CardCurrency:               r.CardCurrency,
		CardExpireDate:             r.CardExpireDate,
		CardLimit:                  r.CardLimit,
		AmountPastDue:              r.AmountPastDue,
		DaysPastDue:                r.DaysPastDue,
		DateSincePastDueOL:         r.DateSincePastDueOL,
		DelinquencyAmountMP:        r.DelinquencyAmountMP,
		LastUnpaidDueDateMP:        r.LastUnpaidDueDateMP,
		MinimumPayment:             r.MinimumPayment,
		OverlimitAmount:            r.OverlimitAmount,
		OverlimitDaysPastDue:       r.OverlimitDaysPastDue,
		NextPaymentDate:            r.NextPaymentDate,
		StandardInterestRate:       r.StandardInterestRate,
		PenaltyInterestRate:        r.PenaltyInterestRate,
		CashWithdrawalInterestRate: r.CashWithdrawalInterestRate,

		SumOfPayments:        sop,
		LastStatementBalance: lsb,
		Period:               parsePeriod(r.Period),

		CardBalance:             lsb - sop,
		NumberOfPaymentsPastDue: 0,
		DateSincePastDue:        nil,
		DpdHO:                   0,
		IsJoint:                 false,
	}
}

// parseAmount parses a monetary field, degrading to 0 on malformed input.
func parseAmount(value, field string, productID int64) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.WithFields(log.Fields{
			"idProduct": productID,
			"field":     field,
			"value":     value,
		}).Warn("Unparseable numeric field, using 0")
		return 0
	}
	return f
}

// parsePeriod parses the billing-cycle identifier as an integer so leading
// zeros are insignificant when matching periods. Malformed periods become 0
// and will never match a schedule row's period.
func parsePeriod(value string) int {
	p, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return p
}
