package services

import "github.com/mrlokans/bookstock/internal/entities"

// BookStore is the persistence contract the service orchestrates.
// FindByID returns nil, nil for an unknown id; Update and Delete report
// false when no row matched.
type BookStore interface {
	Create(book *entities.Book) error
	FindByID(id uint) (*entities.Book, error)
	FindAll(limit, offset int) ([]entities.Book, error)
	Search(query string) ([]entities.Book, error)
	Update(book *entities.Book) (bool, error)
	Delete(id uint) (bool, error)
	Count() (int64, error)
}

// EventRecorder receives successful inventory mutations.
// Implementations must not block the caller.
type EventRecorder interface {
	RecordBookEvent(action entities.AuditAction, book entities.Book)
}

// BookStats is the payload of the stats query.
type BookStats struct {
	TotalBooks int64  `json:"total_books"`
	Timestamp  string `json:"timestamp"`
}
