package models

import (
	"time"
)

// Module names recorded in the load log. FIN is posted by the upstream
// Abacus batch when it finishes a working day; CC is this loader.
const (
	ModuleFin        = "FIN"
	ModuleCreditCard = "CC"
)

// Log status codes, stored as single characters like the rest of Abacus.
const (
	LogStatusOK     = "1"
	LogStatusFailed = "0"
)

// LoadLogEntry is one append-only audit record of a load run, keyed by
// (LoadDate, Module). It doubles as the idempotency guard: a CC entry for
// today means the day is already loaded.
type LoadLogEntry struct {
	ID        int64     `db:"autoid"`
	LoadDate  time.Time `db:"load_date"`
	Module    string    `db:"module"`
	Start     time.Time `db:"start_time"`
	End       time.Time `db:"end_time"`
	NoRecords int       `db:"no_records"`
	Status    string    `db:"status"`
	Error     string    `db:"error"`
}
