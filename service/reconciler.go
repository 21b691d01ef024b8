package service

import (
	"time"

	"ccloader/models"
)

// Reconcile derives the working day's payment schedule from the previous
// working day's schedule and the normalized snapshot. For every product with
// a positive days-past-due count it walks the product's prior schedule rows
// in ascending period order, carries each installment forward, classifies it
// as past due or current, and fixes the snapshot row's past-due anchor date
// and counter. Products that are current, or that have no prior schedule,
// contribute no rows.
//
// The snapshot rows are enriched in place (DateSincePastDue,
// NumberOfPaymentsPastDue); the prior schedule is never mutated.
func Reconcile(workingDay time.Time, snapshot []*models.AccountSnapshotRow, priorSchedule []models.ScheduleRow) []models.ScheduleRow {
	byProduct := groupByProduct(priorSchedule)

	var out []models.ScheduleRow
	for _, r := range snapshot {
		if r.DaysPastDue <= 0 {
			continue
		}

		since := workingDay.AddDate(0, 0, -r.DaysPastDue)
		r.DateSincePastDue = &since

		rows, agg := ReconcileProduct(workingDay, r, byProduct[r.ProductID])
		r.NumberOfPaymentsPastDue = agg.PaymentsPastDue
		out = append(out, rows...)
	}
	return out
}

// ReconcileProduct folds over one product's prior schedule rows, emitting the
// next day's rows and the running aggregates of the pass. Each prior row is
// matched against the snapshot row's current period exactly once:
//
//   - matching period: the installment takes the snapshot's sum of payments
//     and is past due only if the working day has passed its principal
//     payment date;
//   - any other period: the installment carries its sum of payments as-is and
//     is past due unconditionally, a non-current period being overdue by
//     definition.
//
// The returned aggregate reflects the last row processed, in the given
// (ascending period) order.
func ReconcileProduct(workingDay time.Time, r *models.AccountSnapshotRow, prior []models.ScheduleRow) ([]models.ScheduleRow, models.ProductAggregate) {
	agg := models.ProductAggregate{
		LastPeriod: 30000101,
	}

	rows := make([]models.ScheduleRow, 0, len(prior))
	for _, p := range prior {
		row := models.ScheduleRow{
			WorkingDay:             workingDay,
			ProductID:              p.ProductID,
			CustomerNumber:         p.CustomerNumber,
			PrincipalPaymentAmount: p.PrincipalPaymentAmount,
			PrincipalPaymentDate:   p.PrincipalPaymentDate,
			InterestPaymentAmount:  p.InterestPaymentAmount,
			InterestPaymentDate:    p.InterestPaymentDate,
			MinimumPayment:         p.MinimumPayment,
			PenaltyInterestRate:    p.PenaltyInterestRate,
			PenaltyInterestAmount:  p.PenaltyInterestAmount,
			Period:                 p.Period,
			DueDate:                p.DueDate,
		}

		if p.Period == r.Period {
			row.LastSumOfPayment = r.SumOfPayments
			agg.LastPaymentAmount = r.SumOfPayments - p.LastSumOfPayment

			if workingDay.After(p.PrincipalPaymentDate) {
				row.IsPastDue = models.PastDueFlagSet
				agg.PaymentsPastDue++
			} else {
				row.IsPastDue = models.PastDueFlagClear
			}
		} else {
			row.LastSumOfPayment = p.LastSumOfPayment
			row.IsPastDue = models.PastDueFlagSet
			agg.PaymentsPastDue++
		}

		agg.LastMinimumPayment = row.MinimumPayment
		agg.LastPeriod = row.Period
		agg.LastDueDate = row.DueDate
		agg.LastSumOfPayment = row.LastSumOfPayment

		rows = append(rows, row)
	}

	return rows, agg
}

// groupByProduct splits the prior schedule per product, preserving the
// source ordering within each product.
func groupByProduct(schedule []models.ScheduleRow) map[int64][]models.ScheduleRow {
	grouped := make(map[int64][]models.ScheduleRow)
	for _, row := range schedule {
		grouped[row.ProductID] = append(grouped[row.ProductID], row)
	}
	return grouped
}
