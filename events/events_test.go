package events

import (
	"context"
	"testing"
	"time"

	"ccloader/models"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitDispatchesToSubscribers(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe(EventTypeLoadCompleted, func(ctx context.Context, e Event) {
		received = append(received, e)
	})
	bus.Subscribe(EventTypeLoadFailed, func(ctx context.Context, e Event) {
		t.Error("wrong event type dispatched")
	})

	event := LoadCompletedEvent{
		WorkingDay: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		Status:     models.LoadStatusSuccess,
	}
	bus.Emit(context.Background(), event)

	// Dispatch is synchronous, so the handler already ran.
	assert.Len(t, received, 1)
	assert.Equal(t, event, received[0])
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(EventTypeLoadFailed, func(ctx context.Context, e Event) {
		panic("handler bug")
	})
	bus.Subscribe(EventTypeLoadFailed, func(ctx context.Context, e Event) {
		called = true
	})

	bus.Emit(context.Background(), LoadFailedEvent{Err: "boom"})

	assert.True(t, called)
}

func TestTransactionalBus_FlushAfterCommit(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	var received []Event
	bus.Subscribe(EventTypeStagingReplaced, func(ctx context.Context, e Event) {
		received = append(received, e)
	})
	bus.Subscribe(EventTypeWorkingDayCreated, func(ctx context.Context, e Event) {
		received = append(received, e)
	})

	txBus.Publish(WorkingDayCreatedEvent{WorkingDay: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)})
	txBus.Publish(StagingReplacedEvent{SnapshotRows: 10, ScheduleRows: 3})

	// Nothing reaches the bus before the flush.
	assert.Empty(t, received)

	assert.NoError(t, txBus.Flush(context.Background()))
	assert.Len(t, received, 2)

	// A second flush does not replay.
	assert.NoError(t, txBus.Flush(context.Background()))
	assert.Len(t, received, 2)
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	received := 0
	bus.Subscribe(EventTypeStagingReplaced, func(ctx context.Context, e Event) {
		received++
	})

	txBus.Publish(StagingReplacedEvent{})
	txBus.Discard()

	assert.NoError(t, txBus.Flush(context.Background()))
	assert.Equal(t, 0, received)
}
