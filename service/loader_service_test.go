package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ccloader/events"
	"ccloader/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type loaderFixture struct {
	source      *MockSourceLedger
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	snapshot    *MockSnapshotStagingRepository
	schedule    *MockScheduleStagingRepository
	history     *MockScheduleHistoryRepository
	workingDays *MockWorkingDayRepository
	loadState   *MockLoadStateRepository
	loadLog     *MockLoadLogRepository
	publisher   *MockEventPublisher
	bus         *events.Bus
	loader      LoadService
}

func newLoaderFixture() *loaderFixture {
	f := &loaderFixture{
		source:      new(MockSourceLedger),
		factory:     new(MockUnitOfWorkFactory),
		uow:         new(MockUnitOfWork),
		snapshot:    new(MockSnapshotStagingRepository),
		schedule:    new(MockScheduleStagingRepository),
		history:     new(MockScheduleHistoryRepository),
		workingDays: new(MockWorkingDayRepository),
		loadState:   new(MockLoadStateRepository),
		loadLog:     new(MockLoadLogRepository),
		publisher:   new(MockEventPublisher),
		bus:         events.NewBus(),
	}
	f.uow.SetRepositories(f.snapshot, f.schedule, f.workingDays, f.loadState, f.publisher)
	f.loader = NewLoadService(f.source, f.factory, f.history, f.workingDays, f.loadState, f.loadLog, f.bus)
	return f
}

func TestLoadService_ManualSuccess(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	raw := []models.RawAccountRow{
		{ProductID: 4000001, DaysPastDue: 5, Period: "12", SumOfPayments: "300", LastStatementBalance: "500", LastBalanceSign: "0"},
	}
	prior := []models.ScheduleRow{priorRow(4000001, 12, day(2026, 3, 10), 100)}

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.workingDays.On("LatestState", ctx).Return(&models.WorkingDayState{WorkingDay: workingDay, NextWorkingDay: workingDay.AddDate(0, 0, 1)}, nil)
	f.loadLog.On("UpstreamFinished", ctx, workingDay).Return(true, nil)

	f.source.On("DailySnapshot", ctx).Return(raw, nil)
	f.history.On("PriorSchedule", ctx, workingDay).Return(prior, nil)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)

	f.workingDays.On("EnsureWorkingDay", ctx, workingDay).Return(false, nil)
	f.snapshot.On("Clear", ctx, models.ClearDelete).Return(nil)
	f.schedule.On("Clear", ctx, models.ClearDelete).Return(nil)
	f.snapshot.On("BulkInsert", ctx, mock.AnythingOfType("[]*models.AccountSnapshotRow")).Return(int64(1), nil)
	f.schedule.On("BulkInsert", ctx, mock.AnythingOfType("[]models.ScheduleRow")).Return(int64(1), nil)
	f.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		sr, ok := e.(events.StagingReplacedEvent)
		return ok && sr.SnapshotRows == 1 && sr.ScheduleRows == 1 && sr.Strategy == models.ClearDelete
	})).Return()

	f.loadLog.On("Append", ctx, mock.MatchedBy(func(e *models.LoadLogEntry) bool {
		return e.Module == models.ModuleCreditCard &&
			e.LoadDate.Equal(workingDay) &&
			e.Status == models.LogStatusOK &&
			e.NoRecords == 1
	})).Return(nil)

	var completed *events.LoadCompletedEvent
	f.bus.Subscribe(events.EventTypeLoadCompleted, func(_ context.Context, e events.Event) {
		ev := e.(events.LoadCompletedEvent)
		completed = &ev
	})

	status, err := f.loader.Load(ctx, false)

	assert.NoError(t, err)
	assert.Equal(t, models.LoadStatusSuccess, status)
	if assert.NotNil(t, completed) {
		assert.Equal(t, workingDay, completed.WorkingDay)
		assert.False(t, completed.ServiceMode)
	}

	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.snapshot.AssertExpectations(t)
	f.schedule.AssertExpectations(t)
	f.loadLog.AssertExpectations(t)
	f.loadState.AssertNotCalled(t, "MarkDone")
	f.loadState.AssertNotCalled(t, "MarkPending")
}

func TestLoadService_ServiceModeAlreadyFinished(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.loadLog.On("IsDayFinished", ctx, models.ModuleCreditCard, workingDay).Return(true, nil)

	status, err := f.loader.Load(ctx, true)

	assert.NoError(t, err)
	assert.Equal(t, models.LoadStatusFinished, status)

	// A finished day performs no writes at all.
	f.factory.AssertNotCalled(t, "Create")
	f.source.AssertNotCalled(t, "DailySnapshot", mock.Anything)
	f.loadLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.loadState.AssertNotCalled(t, "MarkDone")
}

func TestLoadService_ManualWaitsWithoutWorkingDayState(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.workingDays.On("LatestState", ctx).Return(nil, nil)

	status, err := f.loader.Load(ctx, false)

	assert.NoError(t, err)
	assert.Equal(t, models.LoadStatusWaitingForFin, status)
	f.factory.AssertNotCalled(t, "Create")
	f.loadLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestLoadService_ManualWaitsForFin(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.workingDays.On("LatestState", ctx).Return(&models.WorkingDayState{WorkingDay: workingDay}, nil)
	f.loadLog.On("UpstreamFinished", ctx, workingDay).Return(false, nil)

	status, err := f.loader.Load(ctx, false)

	assert.NoError(t, err)
	assert.Equal(t, models.LoadStatusWaitingForFin, status)
	f.factory.AssertNotCalled(t, "Create")
}

func TestLoadService_ServiceModeSuccess(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.loadLog.On("IsDayFinished", ctx, models.ModuleCreditCard, workingDay).Return(false, nil)

	f.source.On("DailySnapshot", ctx).Return([]models.RawAccountRow{}, nil)
	f.history.On("PriorSchedule", ctx, workingDay).Return([]models.ScheduleRow{}, nil)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)

	// Service runs clear the pending flag inside the transaction and truncate.
	f.loadState.On("MarkDone", ctx).Return(nil)
	f.workingDays.On("EnsureWorkingDay", ctx, workingDay).Return(true, nil)
	f.snapshot.On("Clear", ctx, models.ClearTruncate).Return(nil)
	f.schedule.On("Clear", ctx, models.ClearTruncate).Return(nil)
	f.snapshot.On("BulkInsert", ctx, mock.AnythingOfType("[]*models.AccountSnapshotRow")).Return(int64(0), nil)
	f.schedule.On("BulkInsert", ctx, mock.AnythingOfType("[]models.ScheduleRow")).Return(int64(0), nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.WorkingDayCreatedEvent")).Return()
	f.publisher.On("Publish", mock.AnythingOfType("events.StagingReplacedEvent")).Return()

	f.loadLog.On("Append", ctx, mock.MatchedBy(func(e *models.LoadLogEntry) bool {
		return e.Status == models.LogStatusOK && e.NoRecords == 0
	})).Return(nil)

	status, err := f.loader.Load(ctx, true)

	assert.NoError(t, err)
	assert.Equal(t, models.LoadStatusSuccess, status)
	f.loadState.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.loadState.AssertNotCalled(t, "MarkPending")
}

func TestLoadService_ServiceModeFailureFlagsPending(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.loadLog.On("IsDayFinished", ctx, models.ModuleCreditCard, workingDay).Return(false, nil)
	f.source.On("DailySnapshot", ctx).Return(nil, errors.New("connection reset"))

	f.loadState.On("MarkPending", ctx, workingDay).Return(nil)
	f.loadLog.On("Append", ctx, mock.MatchedBy(func(e *models.LoadLogEntry) bool {
		return e.Status == models.LogStatusFailed && e.Error != ""
	})).Return(nil)

	var failed *events.LoadFailedEvent
	f.bus.Subscribe(events.EventTypeLoadFailed, func(_ context.Context, e events.Event) {
		ev := e.(events.LoadFailedEvent)
		failed = &ev
	})

	status, err := f.loader.Load(ctx, true)

	assert.Error(t, err)
	assert.Equal(t, models.LoadStatusError, status)
	if assert.NotNil(t, failed) {
		assert.True(t, failed.ServiceMode)
		assert.Contains(t, failed.Err, "connection reset")
	}

	f.loadState.AssertExpectations(t)
	f.loadLog.AssertExpectations(t)
}

func TestLoadService_CommitFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	workingDay := day(2026, 3, 16)
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(workingDay, nil)
	f.workingDays.On("LatestState", ctx).Return(&models.WorkingDayState{WorkingDay: workingDay}, nil)
	f.loadLog.On("UpstreamFinished", ctx, workingDay).Return(true, nil)

	f.source.On("DailySnapshot", ctx).Return([]models.RawAccountRow{}, nil)
	f.history.On("PriorSchedule", ctx, workingDay).Return([]models.ScheduleRow{}, nil)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(errors.New("serialization failure"))
	f.uow.On("Rollback").Return(nil)

	f.workingDays.On("EnsureWorkingDay", ctx, workingDay).Return(false, nil)
	f.snapshot.On("Clear", ctx, models.ClearDelete).Return(nil)
	f.schedule.On("Clear", ctx, models.ClearDelete).Return(nil)
	f.snapshot.On("BulkInsert", ctx, mock.Anything).Return(int64(0), nil)
	f.schedule.On("BulkInsert", ctx, mock.Anything).Return(int64(0), nil)
	f.publisher.On("Publish", mock.Anything).Return()

	f.loadLog.On("Append", ctx, mock.MatchedBy(func(e *models.LoadLogEntry) bool {
		return e.Status == models.LogStatusFailed
	})).Return(nil)

	status, err := f.loader.Load(ctx, false)

	assert.Error(t, err)
	assert.Equal(t, models.LoadStatusError, status)
	f.uow.AssertExpectations(t)
	// Manual runs never touch the service flag, even on failure.
	f.loadState.AssertNotCalled(t, "MarkPending")
}

func TestLoadService_WorkingDayFetchFailure(t *testing.T) {
	ctx := context.Background()
	f := newLoaderFixture()

	f.source.On("WorkingDay", ctx).Return(time.Time{}, errors.New("view unavailable"))
	f.loadLog.On("Append", ctx, mock.MatchedBy(func(e *models.LoadLogEntry) bool {
		return e.Status == models.LogStatusFailed && e.LoadDate.IsZero()
	})).Return(nil)

	status, err := f.loader.Load(ctx, false)

	assert.Error(t, err)
	assert.Equal(t, models.LoadStatusError, status)
	f.loadLog.AssertExpectations(t)
	f.factory.AssertNotCalled(t, "Create")
}
