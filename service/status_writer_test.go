package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ccloader/events"
	"ccloader/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusWriter_WritesCompletedRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	bus := events.NewBus()
	NewStatusWriter(path, bus)

	entry := models.LoadLogEntry{
		LoadDate:  day(2026, 3, 16),
		Module:    models.ModuleCreditCard,
		Start:     time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 3, 16, 2, 5, 0, 0, time.UTC),
		NoRecords: 1234,
		Status:    models.LogStatusOK,
	}
	bus.Emit(context.Background(), events.LoadCompletedEvent{
		WorkingDay: entry.LoadDate,
		Status:     models.LoadStatusSuccess,
		LogEntry:   entry,
	})

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Load Date: 2026-03-16")
	assert.Contains(t, string(content), "Module: CC")
	assert.Contains(t, string(content), "No. of Records: 1234")
	assert.Contains(t, string(content), "Status: SUCCESS")
}

func TestStatusWriter_WritesFailedRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	bus := events.NewBus()
	NewStatusWriter(path, bus)

	entry := models.LoadLogEntry{
		LoadDate: day(2026, 3, 16),
		Module:   models.ModuleCreditCard,
		Status:   models.LogStatusFailed,
		Error:    "failed to fetch daily snapshot: connection reset",
	}
	bus.Emit(context.Background(), events.LoadFailedEvent{
		WorkingDay: entry.LoadDate,
		LogEntry:   entry,
		Err:        entry.Error,
	})

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Status: ERROR")
	assert.Contains(t, string(content), "Error Text: failed to fetch daily snapshot: connection reset")
}

func TestStatusWriter_EmptyPathDisabled(t *testing.T) {
	bus := events.NewBus()
	NewStatusWriter("", bus)

	// Emitting must not panic or create files anywhere.
	bus.Emit(context.Background(), events.LoadCompletedEvent{
		Status:   models.LoadStatusSuccess,
		LogEntry: models.LoadLogEntry{Module: models.ModuleCreditCard},
	})
}
