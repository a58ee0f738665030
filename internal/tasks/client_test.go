package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstock/internal/entities"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test-tasks.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test-tasks.db")

	client, err := NewClient(dbPath, Config{})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, 2, client.config.Workers, "zero workers falls back to the default")

	// Verify tasks database was created
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	// Start client in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	// Stop should complete successfully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

func TestClientStopBeforeStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type memoryWriter struct {
	mu     sync.Mutex
	events []entities.AuditEvent
	done   chan struct{}
}

func (w *memoryWriter) LogEvent(event *entities.AuditEvent) error {
	w.mu.Lock()
	w.events = append(w.events, *event)
	w.mu.Unlock()
	if w.done != nil {
		w.done <- struct{}{}
	}
	return nil
}

func TestEnqueueAuditEvent(t *testing.T) {
	client := newTestClient(t)

	writer := &memoryWriter{done: make(chan struct{}, 1)}
	client.Register(NewRecordAuditEventQueue(writer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id := uint(5)
	err := client.EnqueueAuditEvent(entities.AuditEvent{
		ID:          99,
		Action:      entities.AuditActionBookCreated,
		EntityType:  "book",
		EntityID:    &id,
		ISBN:        "978-0123456789",
		Description: "Created book",
	})
	require.NoError(t, err)

	select {
	case <-writer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("audit event was not written within timeout")
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()
	require.Len(t, writer.events, 1)
	event := writer.events[0]
	assert.Zero(t, event.ID, "the stored row gets a fresh id")
	assert.Equal(t, entities.AuditActionBookCreated, event.Action)
	require.NotNil(t, event.EntityID)
	assert.Equal(t, uint(5), *event.EntityID)
	assert.False(t, event.CreatedAt.IsZero())
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 3}
		process := CleanupAuditEventsProcessor(cleaner)

		err := process(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("defaults retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		process := CleanupAuditEventsProcessor(cleaner)

		require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))
		assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, cleaner.retention)
	})

	t.Run("propagates errors", func(t *testing.T) {
		process := CleanupAuditEventsProcessor(&fakeCleaner{err: errors.New("locked")})
		err := process(context.Background(), CleanupAuditEventsTask{RetentionDays: 1})
		assert.ErrorContains(t, err, "locked")
	})

	t.Run("requires a cleaner", func(t *testing.T) {
		process := CleanupAuditEventsProcessor(nil)
		assert.Error(t, process(context.Background(), CleanupAuditEventsTask{}))
	})
}

func TestRecordAuditEventProcessor_RequiresWriter(t *testing.T) {
	process := RecordAuditEventProcessor(nil)
	assert.Error(t, process(context.Background(), RecordAuditEventTask{}))
}

func TestTaskConfigs(t *testing.T) {
	cleanup := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, "cleanup_audit_events", cleanup.Name)
	assert.Equal(t, 3, cleanup.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cleanup.Backoff)
	assert.NotNil(t, cleanup.Retention)

	record := RecordAuditEventTask{}.Config()
	assert.Equal(t, "record_audit_event", record.Name)
	assert.Equal(t, 5, record.MaxAttempts)
	assert.Equal(t, 30*time.Second, record.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestParamFields(t *testing.T) {
	fields := paramFields([]any{"queue", "record_audit_event", "id", 4, "dangling"})
	assert.Equal(t, "record_audit_event", fields["queue"])
	assert.Equal(t, 4, fields["id"])
	assert.Equal(t, "dangling", fields["extra"])
}

var _ backlite.Logger = (*taskLogger)(nil)
