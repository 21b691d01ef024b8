package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ccloader/events"
	"ccloader/models"

	log "github.com/sirupsen/logrus"
)

// StatusWriter mirrors each run's outcome into a flat status file that
// operators can inspect without database access. It subscribes to the load
// events and rewrites the file on every run.
type StatusWriter struct {
	path string
}

// NewStatusWriter creates a writer for the given file path and subscribes it
// to the load events. An empty path disables it.
func NewStatusWriter(path string, bus *events.Bus) *StatusWriter {
	w := &StatusWriter{path: path}
	if path != "" {
		bus.Subscribe(events.EventTypeLoadCompleted, w.handleCompleted)
		bus.Subscribe(events.EventTypeLoadFailed, w.handleFailed)
	}
	return w
}

func (w *StatusWriter) handleCompleted(ctx context.Context, event events.Event) {
	e, ok := event.(events.LoadCompletedEvent)
	if !ok {
		return
	}
	w.write(e.Status, e.LogEntry)
}

func (w *StatusWriter) handleFailed(ctx context.Context, event events.Event) {
	e, ok := event.(events.LoadFailedEvent)
	if !ok {
		return
	}
	w.write(models.LoadStatusError, e.LogEntry)
}

func (w *StatusWriter) write(status models.LoadStatus, entry models.LoadLogEntry) {
	lines := []string{
		"Log:",
		fmt.Sprintf("Load Date: %s", entry.LoadDate.Format("2006-01-02")),
		fmt.Sprintf("Module: %s", entry.Module),
		fmt.Sprintf("Start: %s", entry.Start.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("End: %s", entry.End.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("No. of Records: %d", entry.NoRecords),
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Error Text: %s", entry.Error),
	}

	if err := os.WriteFile(w.path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		log.WithError(err).WithField("path", w.path).Error("Failed to write status file")
	}
}
