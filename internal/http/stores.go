package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookstock/internal/entities"
	"github.com/mrlokans/bookstock/internal/services"
)

// Each controller depends on the narrow interface below rather than on
// concrete services.

// BookService is the inventory API used by BooksController.
type BookService interface {
	CreateBook(fields map[string]any) (*entities.Book, error)
	UpdateBook(id uint, fields map[string]any) (bool, error)
	GetBook(id uint) (*entities.Book, error)
	GetAllBooks(page, perPage int) ([]entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	DeleteBook(id uint) (bool, error)
	GetBookStats() (services.BookStats, error)
}

// AuditReader provides read access to the audit trail.
type AuditReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetBookHistory(bookID uint) ([]entities.AuditEvent, error)
}

// TaskQueue exposes task status and manual runs.
type TaskQueue interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
	EnqueueAuditCleanup(retentionDays int) (string, error)
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping() error
}
