package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstock/internal/database/audit"
	"github.com/mrlokans/bookstock/internal/entities"
	"github.com/mrlokans/bookstock/internal/logger"
)

// Enqueuer hands an audit event to the background task queue.
type Enqueuer interface {
	EnqueueAuditEvent(event entities.AuditEvent) error
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo     *audit.Repository
	enqueuer Enqueuer
	pending  sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// SetEnqueuer routes recorded book events through the task queue.
func (s *Service) SetEnqueuer(enqueuer Enqueuer) {
	s.enqueuer = enqueuer
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			logger.Log.WithError(err).WithField("action", event.Action).Error("Failed to log audit event")
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// RecordBookEvent records a book mutation. Queue failures fall back to a
// direct background write so the event is not lost.
func (s *Service) RecordBookEvent(action entities.AuditAction, book entities.Book) {
	event := NewBookEvent(action, book)

	if s.enqueuer != nil {
		err := s.enqueuer.EnqueueAuditEvent(*event)
		if err == nil {
			return
		}
		logger.Log.WithError(err).WithField("action", action).Warn("Audit enqueue failed, writing directly")
	}

	s.LogAsync(event)
}

// NewBookEvent builds the audit event for a book mutation. Metadata holds a
// JSON snapshot of the book.
func NewBookEvent(action entities.AuditAction, book entities.Book) *entities.AuditEvent {
	event := &entities.AuditEvent{
		Action:      action,
		EntityType:  "book",
		ISBN:        book.ISBN,
		Description: truncate(describe(action, book), 500),
	}
	if book.ID != 0 {
		id := book.ID
		event.EntityID = &id
	}
	if snapshot, err := json.Marshal(book.ToMap()); err == nil {
		event.Metadata = string(snapshot)
	}
	return event
}

func describe(action entities.AuditAction, book entities.Book) string {
	switch action {
	case entities.AuditActionBookCreated:
		return fmt.Sprintf("Created book %q by %s", book.Title, book.Author)
	case entities.AuditActionBookUpdated:
		return fmt.Sprintf("Updated book %q by %s", book.Title, book.Author)
	case entities.AuditActionBookDeleted:
		return fmt.Sprintf("Deleted book %q by %s", book.Title, book.Author)
	default:
		return fmt.Sprintf("%s: %q", action, book.Title)
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetBookHistory returns every event recorded for one book, oldest first.
func (s *Service) GetBookHistory(bookID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForBook(bookID)
}

// DeleteOldEvents removes events older than the specified duration. A
// cleanup that removed rows is itself recorded.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOldEvents(cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logger.Log.WithFields(logrus.Fields{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Removed old audit events")

		err := s.repo.LogEvent(&entities.AuditEvent{
			Action:      entities.AuditActionCleanup,
			EntityType:  "audit_event",
			Description: fmt.Sprintf("Removed %d audit events older than %s", deleted, cutoff.Format(time.DateOnly)),
		})
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to record audit cleanup")
		}
	}
	return deleted, nil
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
