package service

import (
	"context"
	"time"

	"ccloader/events"
	"ccloader/models"
)

// SourceLedger is the read-only view of the Centaur card system.
type SourceLedger interface {
	// WorkingDay returns the business date of the latest delinquency file.
	WorkingDay(ctx context.Context) (time.Time, error)

	// DailySnapshot returns the raw credit-card position snapshot.
	DailySnapshot(ctx context.Context) ([]models.RawAccountRow, error)
}

// TriggerService drives the remote Centaur operations that precede a load.
type TriggerService interface {
	// TransferPaylinkFile transfers the paylink payment file upstream.
	TransferPaylinkFile(ctx context.Context) (bool, error)

	// ProcessDelinquency runs the remote delinquency computation and reports
	// whether it finished.
	ProcessDelinquency(ctx context.Context) (bool, error)
}

// SnapshotStagingRepository manages the t17 snapshot staging table.
type SnapshotStagingRepository interface {
	// Clear empties the staging table using the given strategy.
	Clear(ctx context.Context, strategy models.ClearStrategy) error

	// BulkInsert copies the normalized snapshot rows into staging.
	BulkInsert(ctx context.Context, rows []*models.AccountSnapshotRow) (int64, error)
}

// ScheduleStagingRepository manages the t18 schedule staging table.
type ScheduleStagingRepository interface {
	// Clear empties the staging table using the given strategy.
	Clear(ctx context.Context, strategy models.ClearStrategy) error

	// BulkInsert copies the reconciled schedule rows into staging.
	BulkInsert(ctx context.Context, rows []models.ScheduleRow) (int64, error)
}

// ScheduleHistoryRepository reads the durable payment-schedule history.
type ScheduleHistoryRepository interface {
	// PriorSchedule returns all schedule rows of the most recent working day
	// strictly before the given day, ordered by period ascending. The
	// reconciler depends on that ordering.
	PriorSchedule(ctx context.Context, before time.Time) ([]models.ScheduleRow, error)
}

// WorkingDayRepository tracks working days on the Abacus side.
type WorkingDayRepository interface {
	// LatestState returns the latest non-credit-card working day state,
	// or nil when none is recorded.
	LatestState(ctx context.Context) (*models.WorkingDayState, error)

	// EnsureWorkingDay registers the credit-card working day if it is not
	// known yet and reports whether it was created.
	EnsureWorkingDay(ctx context.Context, day time.Time) (bool, error)
}

// LoadStateRepository maintains the credit-card load flag used by the
// service-mode retry protocol.
type LoadStateRepository interface {
	// MarkPending flags the given day as still waiting for a successful
	// load, so the next trigger retries it.
	MarkPending(ctx context.Context, day time.Time) error

	// MarkDone clears the pending flag.
	MarkDone(ctx context.Context) error
}

// LoadLogRepository is the append-only l01 audit log, also consulted as the
// idempotency and upstream-readiness guard.
type LoadLogRepository interface {
	// Append writes one run record.
	Append(ctx context.Context, entry *models.LoadLogEntry) error

	// UpstreamFinished reports whether the upstream FIN signal is posted for
	// the given working day.
	UpstreamFinished(ctx context.Context, day time.Time) (bool, error)

	// IsDayFinished reports whether the module already loaded the given day
	// successfully.
	IsDayFinished(ctx context.Context, module string, day time.Time) (bool, error)
}

// LoadService runs one staging load for the current working day.
type LoadService interface {
	// Load performs a load attempt in the given mode and returns its
	// terminal state. The returned error is non-nil only for the error state.
	Load(ctx context.Context, serviceMode bool) (models.LoadStatus, error)
}

// BatchService runs the full scheduled batch chain: paylink transfer,
// readiness gates, remote delinquency trigger, then the load.
type BatchService interface {
	Run(ctx context.Context) (models.LoadStatus, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork bundles the staging-side repositories in one transaction. The
// whole clear+insert sequence commits or rolls back as a unit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	SnapshotStaging() SnapshotStagingRepository
	ScheduleStaging() ScheduleStagingRepository
	WorkingDays() WorkingDayRepository
	LoadState() LoadStateRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
