package repository

import (
	"context"
	"fmt"

	"ccloader/database"
	"ccloader/events"
	"ccloader/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface. It binds the
// staging-side repositories to one transaction so the clear+insert sequence
// commits or rolls back as a unit.
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	snapshotRepo     service.SnapshotStagingRepository
	scheduleRepo     service.ScheduleStagingRepository
	workingDayRepo   service.WorkingDayRepository
	loadStateRepo    service.LoadStateRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.snapshotRepo = newSnapshotRepositoryWithTx(tx)
	u.scheduleRepo = newScheduleRepositoryWithTx(tx)
	u.workingDayRepo = newWorkingDayRepositoryWithTx(tx)
	u.loadStateRepo = newLoadStateRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// SnapshotStaging returns the snapshot staging repository for this unit of work
func (u *unitOfWork) SnapshotStaging() service.SnapshotStagingRepository {
	if u.snapshotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.snapshotRepo
}

// ScheduleStaging returns the schedule staging repository for this unit of work
func (u *unitOfWork) ScheduleStaging() service.ScheduleStagingRepository {
	if u.scheduleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.scheduleRepo
}

// WorkingDays returns the working day repository for this unit of work
func (u *unitOfWork) WorkingDays() service.WorkingDayRepository {
	if u.workingDayRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.workingDayRepo
}

// LoadState returns the load state repository for this unit of work
func (u *unitOfWork) LoadState() service.LoadStateRepository {
	if u.loadStateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.loadStateRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
