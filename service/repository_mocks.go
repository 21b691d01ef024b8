package service

import (
	"context"
	"time"

	"ccloader/events"
	"ccloader/models"

	"github.com/stretchr/testify/mock"
)

// MockSourceLedger is a mock implementation of SourceLedger
type MockSourceLedger struct {
	mock.Mock
}

func (m *MockSourceLedger) WorkingDay(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockSourceLedger) DailySnapshot(ctx context.Context) ([]models.RawAccountRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawAccountRow), args.Error(1)
}

// MockTriggerService is a mock implementation of TriggerService
type MockTriggerService struct {
	mock.Mock
}

func (m *MockTriggerService) TransferPaylinkFile(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockTriggerService) ProcessDelinquency(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockSnapshotStagingRepository is a mock implementation of SnapshotStagingRepository
type MockSnapshotStagingRepository struct {
	mock.Mock
}

func (m *MockSnapshotStagingRepository) Clear(ctx context.Context, strategy models.ClearStrategy) error {
	args := m.Called(ctx, strategy)
	return args.Error(0)
}

func (m *MockSnapshotStagingRepository) BulkInsert(ctx context.Context, rows []*models.AccountSnapshotRow) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

// MockScheduleStagingRepository is a mock implementation of ScheduleStagingRepository
type MockScheduleStagingRepository struct {
	mock.Mock
}

func (m *MockScheduleStagingRepository) Clear(ctx context.Context, strategy models.ClearStrategy) error {
	args := m.Called(ctx, strategy)
	return args.Error(0)
}

func (m *MockScheduleStagingRepository) BulkInsert(ctx context.Context, rows []models.ScheduleRow) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

// MockScheduleHistoryRepository is a mock implementation of ScheduleHistoryRepository
type MockScheduleHistoryRepository struct {
	mock.Mock
}

func (m *MockScheduleHistoryRepository) PriorSchedule(ctx context.Context, before time.Time) ([]models.ScheduleRow, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduleRow), args.Error(1)
}

// MockWorkingDayRepository is a mock implementation of WorkingDayRepository
type MockWorkingDayRepository struct {
	mock.Mock
}

func (m *MockWorkingDayRepository) LatestState(ctx context.Context) (*models.WorkingDayState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkingDayState), args.Error(1)
}

func (m *MockWorkingDayRepository) EnsureWorkingDay(ctx context.Context, day time.Time) (bool, error) {
	args := m.Called(ctx, day)
	return args.Bool(0), args.Error(1)
}

// MockLoadStateRepository is a mock implementation of LoadStateRepository
type MockLoadStateRepository struct {
	mock.Mock
}

func (m *MockLoadStateRepository) MarkPending(ctx context.Context, day time.Time) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

func (m *MockLoadStateRepository) MarkDone(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLoadLogRepository is a mock implementation of LoadLogRepository
type MockLoadLogRepository struct {
	mock.Mock
}

func (m *MockLoadLogRepository) Append(ctx context.Context, entry *models.LoadLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoadLogRepository) UpstreamFinished(ctx context.Context, day time.Time) (bool, error) {
	args := m.Called(ctx, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoadLogRepository) IsDayFinished(ctx context.Context, module string, day time.Time) (bool, error) {
	args := m.Called(ctx, module, day)
	return args.Bool(0), args.Error(1)
}

// MockLoadService is a mock implementation of LoadService
type MockLoadService struct {
	mock.Mock
}

func (m *MockLoadService) Load(ctx context.Context, serviceMode bool) (models.LoadStatus, error) {
	args := m.Called(ctx, serviceMode)
	return args.Get(0).(models.LoadStatus), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Configure the
// repositories it hands out with SetRepositories before use.
type MockUnitOfWork struct {
	mock.Mock
	snapshotStaging SnapshotStagingRepository
	scheduleStaging ScheduleStagingRepository
	workingDays     WorkingDayRepository
	loadState       LoadStateRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the getters. Nil is
// allowed for repositories a test never touches.
func (m *MockUnitOfWork) SetRepositories(
	snapshotStaging SnapshotStagingRepository,
	scheduleStaging ScheduleStagingRepository,
	workingDays WorkingDayRepository,
	loadState LoadStateRepository,
	eventBus EventPublisher,
) {
	m.snapshotStaging = snapshotStaging
	m.scheduleStaging = scheduleStaging
	m.workingDays = workingDays
	m.loadState = loadState
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) SnapshotStaging() SnapshotStagingRepository {
	return m.snapshotStaging
}

func (m *MockUnitOfWork) ScheduleStaging() ScheduleStagingRepository {
	return m.scheduleStaging
}

func (m *MockUnitOfWork) WorkingDays() WorkingDayRepository {
	return m.workingDays
}

func (m *MockUnitOfWork) LoadState() LoadStateRepository {
	return m.loadState
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
