package models

// LoadStatus is the closed set of terminal outcomes of a load run.
type LoadStatus int

const (
	// LoadStatusSuccess means the staging tables were replaced and committed.
	LoadStatusSuccess LoadStatus = iota
	// LoadStatusWaitingForFin means upstream has not posted the FIN signal
	// for the latest working day yet; a manual run should simply try later.
	LoadStatusWaitingForFin
	// LoadStatusError means the run failed; staging was rolled back and the
	// next trigger retries the same day.
	LoadStatusError
	// LoadStatusFinished means today's load already completed; nothing to do.
	LoadStatusFinished
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStatusSuccess:
		return "SUCCESS"
	case LoadStatusWaitingForFin:
		return "WAITING_FOR_FIN"
	case LoadStatusError:
		return "ERROR"
	case LoadStatusFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// ClearStrategy selects how the staging tables are emptied before the bulk
// insert. Automated service runs own the tables and may truncate; manual runs
// delete row-by-row so they can coexist with a concurrent job's locks.
type ClearStrategy int

const (
	ClearTruncate ClearStrategy = iota
	ClearDelete
)

func (c ClearStrategy) String() string {
	if c == ClearTruncate {
		return "truncate"
	}
	return "delete"
}
