package service

import (
	"context"
	"fmt"
	"time"

	"ccloader/events"
	"ccloader/models"

	log "github.com/sirupsen/logrus"
)

type loadService struct {
	source      SourceLedger
	uowFactory  UnitOfWorkFactory
	history     ScheduleHistoryRepository
	workingDays WorkingDayRepository
	loadState   LoadStateRepository
	loadLog     LoadLogRepository
	bus         *events.Bus
}

// NewLoadService creates the load orchestrator. workingDays, loadState and
// loadLog operate outside the staging transaction: the gates run before it
// and the failure bookkeeping must survive its rollback.
func NewLoadService(
	source SourceLedger,
	uowFactory UnitOfWorkFactory,
	history ScheduleHistoryRepository,
	workingDays WorkingDayRepository,
	loadState LoadStateRepository,
	loadLog LoadLogRepository,
	bus *events.Bus,
) LoadService {
	return &loadService{
		source:      source,
		uowFactory:  uowFactory,
		history:     history,
		workingDays: workingDays,
		loadState:   loadState,
		loadLog:     loadLog,
		bus:         bus,
	}
}

// Load runs one load attempt. Terminal states:
//
//	WaitingForFin — manual mode, upstream FIN not posted yet
//	Finished      — service mode, today already loaded; no writes performed
//	Success       — staging replaced and committed, l01 entry written
//	Error         — rolled back; in service mode the day is re-flagged
//	                pending so the next trigger retries it
func (s *loadService) Load(ctx context.Context, serviceMode bool) (models.LoadStatus, error) {
	start := time.Now()

	workingDay, err := s.source.WorkingDay(ctx)
	if err != nil {
		// Without a working day the run cannot be attributed to a day at
		// all; log against the zero date and fail.
		err = fmt.Errorf("failed to resolve working day: %w", err)
		s.writeRunLog(ctx, time.Time{}, start, 0, models.LogStatusFailed, err)
		s.bus.Emit(ctx, events.LoadFailedEvent{ServiceMode: serviceMode, Err: err.Error()})
		return models.LoadStatusError, err
	}

	logger := log.WithFields(log.Fields{
		"workingDay":  workingDay.Format("2006-01-02"),
		"serviceMode": serviceMode,
	})

	if serviceMode {
		done, err := s.loadLog.IsDayFinished(ctx, models.ModuleCreditCard, workingDay)
		if err != nil {
			return s.fail(ctx, workingDay, start, serviceMode, fmt.Errorf("failed to check load log: %w", err))
		}
		if done {
			logger.Info("Working day already loaded, nothing to do")
			return models.LoadStatusFinished, nil
		}
	} else {
		state, err := s.workingDays.LatestState(ctx)
		if err != nil {
			return s.fail(ctx, workingDay, start, serviceMode, fmt.Errorf("failed to read working day state: %w", err))
		}
		if state == nil {
			logger.Info("No working day state recorded yet, waiting")
			return models.LoadStatusWaitingForFin, nil
		}
		fin, err := s.loadLog.UpstreamFinished(ctx, state.WorkingDay)
		if err != nil {
			return s.fail(ctx, workingDay, start, serviceMode, fmt.Errorf("failed to check FIN signal: %w", err))
		}
		if !fin {
			logger.Info("Upstream FIN not posted yet, waiting")
			return models.LoadStatusWaitingForFin, nil
		}
	}

	count, err := s.cleanAndLoad(ctx, workingDay, serviceMode)
	if err != nil {
		return s.fail(ctx, workingDay, start, serviceMode, err)
	}

	entry := s.writeRunLog(ctx, workingDay, start, count, models.LogStatusOK, nil)
	s.bus.Emit(ctx, events.LoadCompletedEvent{
		WorkingDay:  workingDay,
		Status:      models.LoadStatusSuccess,
		LogEntry:    entry,
		ServiceMode: serviceMode,
	})
	logger.WithField("records", count).Info("Load finished")
	return models.LoadStatusSuccess, nil
}

// cleanAndLoad fetches, normalizes and reconciles the snapshot, then
// replaces both staging tables in a single transaction.
func (s *loadService) cleanAndLoad(ctx context.Context, workingDay time.Time, serviceMode bool) (int, error) {
	raw, err := s.source.DailySnapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch daily snapshot: %w", err)
	}

	rows := Normalize(raw)

	prior, err := s.history.PriorSchedule(ctx, workingDay)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch prior schedule: %w", err)
	}

	schedule := Reconcile(workingDay, rows, prior)

	// Service runs own the staging tables and may truncate; manual runs
	// delete so they can coexist with a concurrently scheduled job.
	strategy := models.ClearDelete
	if serviceMode {
		strategy = models.ClearTruncate
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if serviceMode {
		if err := uow.LoadState().MarkDone(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear load flag: %w", err)
		}
	}

	created, err := uow.WorkingDays().EnsureWorkingDay(ctx, workingDay)
	if err != nil {
		return 0, fmt.Errorf("failed to register working day: %w", err)
	}
	if created {
		uow.EventBus().Publish(events.WorkingDayCreatedEvent{WorkingDay: workingDay})
	}

	if err := uow.SnapshotStaging().Clear(ctx, strategy); err != nil {
		return 0, fmt.Errorf("failed to clear snapshot staging: %w", err)
	}
	if err := uow.ScheduleStaging().Clear(ctx, strategy); err != nil {
		return 0, fmt.Errorf("failed to clear schedule staging: %w", err)
	}

	inserted, err := uow.SnapshotStaging().BulkInsert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot staging: %w", err)
	}
	scheduleInserted, err := uow.ScheduleStaging().BulkInsert(ctx, schedule)
	if err != nil {
		return 0, fmt.Errorf("failed to insert schedule staging: %w", err)
	}

	uow.EventBus().Publish(events.StagingReplacedEvent{
		WorkingDay:   workingDay,
		SnapshotRows: int(inserted),
		ScheduleRows: int(scheduleInserted),
		Strategy:     strategy,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit staging replace: %w", err)
	}

	return int(inserted), nil
}

// fail finalizes an errored run: service mode re-flags the day as pending,
// the run is logged, and the failure event is emitted.
func (s *loadService) fail(ctx context.Context, workingDay time.Time, start time.Time, serviceMode bool, err error) (models.LoadStatus, error) {
	if serviceMode {
		if mErr := s.loadState.MarkPending(ctx, workingDay); mErr != nil {
			log.WithError(mErr).Error("Failed to flag load as pending")
		}
	}
	entry := s.writeRunLog(ctx, workingDay, start, 0, models.LogStatusFailed, err)
	s.bus.Emit(ctx, events.LoadFailedEvent{
		WorkingDay:  workingDay,
		LogEntry:    entry,
		ServiceMode: serviceMode,
		Err:         err.Error(),
	})
	return models.LoadStatusError, err
}

func (s *loadService) writeRunLog(ctx context.Context, workingDay, start time.Time, records int, status string, runErr error) models.LoadLogEntry {
	entry := models.LoadLogEntry{
		LoadDate:  workingDay,
		Module:    models.ModuleCreditCard,
		Start:     start,
		End:       time.Now(),
		NoRecords: records,
		Status:    status,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := s.loadLog.Append(ctx, &entry); err != nil {
		log.WithError(err).Error("Failed to append load log entry")
	}
	return entry
}
