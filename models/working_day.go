package models

import (
	"time"
)

// WorkingDayState tracks the latest working day and the next working day of
// the non-credit-card ledger. Delinquency processing for today is allowed
// only while today has not passed the recorded next working day.
type WorkingDayState struct {
	WorkingDay     time.Time `db:"working_day"`
	NextWorkingDay time.Time `db:"next_working_day"`
}

// DelinquencyAllowed reports whether the delinquency computation may still be
// triggered at the given time (elapsed days since the next working day <= 0).
func (w WorkingDayState) DelinquencyAllowed(now time.Time) bool {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextDay := time.Date(w.NextWorkingDay.Year(), w.NextWorkingDay.Month(), w.NextWorkingDay.Day(), 0, 0, 0, 0, time.UTC)
	return !nowDay.After(nextDay)
}
