package events

import (
	"context"
	"sync"
	"time"

	"ccloader/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLoadCompleted     EventType = "load_completed"
	EventTypeLoadFailed        EventType = "load_failed"
	EventTypeWorkingDayCreated EventType = "working_day_created"
	EventTypeStagingReplaced   EventType = "staging_replaced"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LoadCompletedEvent is published after a run finishes in any non-error state
type LoadCompletedEvent struct {
	WorkingDay  time.Time
	Status      models.LoadStatus
	LogEntry    models.LoadLogEntry
	ServiceMode bool
}

func (e LoadCompletedEvent) Type() EventType {
	return EventTypeLoadCompleted
}

// LoadFailedEvent is published after a run ends in the error state
type LoadFailedEvent struct {
	WorkingDay  time.Time
	LogEntry    models.LoadLogEntry
	ServiceMode bool
	Err         string
}

func (e LoadFailedEvent) Type() EventType {
	return EventTypeLoadFailed
}

// WorkingDayCreatedEvent is published when a new credit-card working day row
// is registered
type WorkingDayCreatedEvent struct {
	WorkingDay time.Time
}

func (e WorkingDayCreatedEvent) Type() EventType {
	return EventTypeWorkingDayCreated
}

// StagingReplacedEvent is published after the staging tables were cleared and
// repopulated within a committed transaction
type StagingReplacedEvent struct {
	WorkingDay   time.Time
	SnapshotRows int
	ScheduleRows int
	Strategy     models.ClearStrategy
}

func (e StagingReplacedEvent) Type() EventType {
	return EventTypeStagingReplaced
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// synchronously: the batch process exits right after the run, so async
// dispatch would race process shutdown.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	for _, ev := range b.pending {
		b.real.Emit(ctx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a DB rollback to drop staged events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
