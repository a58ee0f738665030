package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookstock/internal/entities"
)

// AuditEventWriter persists audit events.
type AuditEventWriter interface {
	LogEvent(event *entities.AuditEvent) error
}

// RecordAuditEventTask writes one audit event outside the request path.
type RecordAuditEventTask struct {
	Event entities.AuditEvent `json:"event"`
}

// Config returns the queue configuration for audit write tasks.
func (t RecordAuditEventTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "record_audit_event",
		MaxAttempts: 5,
		Backoff:     10 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RecordAuditEventProcessor creates a processor function for RecordAuditEventTask.
func RecordAuditEventProcessor(writer AuditEventWriter) backlite.QueueProcessor[RecordAuditEventTask] {
	return func(ctx context.Context, task RecordAuditEventTask) error {
		if writer == nil {
			return fmt.Errorf("audit event writer not configured")
		}

		event := task.Event
		event.ID = 0
		if err := writer.LogEvent(&event); err != nil {
			return fmt.Errorf("record audit event %s: %w", event.Action, err)
		}
		return nil
	}
}

// NewRecordAuditEventQueue creates a backlite queue for audit write tasks.
func NewRecordAuditEventQueue(writer AuditEventWriter) backlite.Queue {
	return backlite.NewQueue(RecordAuditEventProcessor(writer))
}

// EnqueueAuditEvent schedules event for a background write. The event keeps
// its original timestamp when the write is retried.
func (c *Client) EnqueueAuditEvent(event entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := c.Add(RecordAuditEventTask{Event: event}).Save()
	return err
}
