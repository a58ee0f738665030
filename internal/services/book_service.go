package services

import (
	"fmt"
	"math"
	"time"

	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/entities"
)

// StatsTimestampFormat is the layout of BookStats.Timestamp.
const StatsTimestampFormat = time.DateTime

// BookService validates input and orchestrates BookStore calls.
type BookService struct {
	store      BookStore
	recorder   EventRecorder
	pagination config.Pagination
	now        func() time.Time
}

// NewBookService creates a service over store. Zero pagination values fall
// back to config.DefaultPerPage and config.MaxPerPage.
func NewBookService(store BookStore, pagination config.Pagination) *BookService {
	if pagination.DefaultPerPage <= 0 {
		pagination.DefaultPerPage = config.DefaultPerPage
	}
	if pagination.MaxPerPage <= 0 {
		pagination.MaxPerPage = config.MaxPerPage
	}
	return &BookService{
		store:      store,
		pagination: pagination,
		now:        time.Now,
	}
}

// SetEventRecorder sets the recorder notified after successful mutations.
func (s *BookService) SetEventRecorder(recorder EventRecorder) {
	s.recorder = recorder
}

func (s *BookService) record(action entities.AuditAction, book entities.Book) {
	if s.recorder != nil {
		s.recorder.RecordBookEvent(action, book)
	}
}

// CreateBook validates fields and inserts a new book.
func (s *BookService) CreateBook(fields map[string]any) (*entities.Book, error) {
	input, err := ParseBookInput(fields)
	if err != nil {
		return nil, err
	}

	book := entities.NewBook(input.Fields())
	if err := s.store.Create(&book); err != nil {
		return nil, err
	}

	s.record(entities.AuditActionBookCreated, book)
	return &book, nil
}

// UpdateBook replaces every mutable field of an existing book.
func (s *BookService) UpdateBook(id uint, fields map[string]any) (bool, error) {
	existing, err := s.store.FindByID(id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, ErrNotFound
	}

	input, err := ParseBookInput(fields)
	if err != nil {
		return false, err
	}

	updated := existing.WithFields(input.Fields())
	ok, err := s.store.Update(&updated)
	if err != nil {
		return false, err
	}
	if ok {
		s.record(entities.AuditActionBookUpdated, updated)
	}
	return ok, nil
}

// GetBook returns nil, nil when the book does not exist.
func (s *BookService) GetBook(id uint) (*entities.Book, error) {
	return s.store.FindByID(id)
}

// GetAllBooks returns one page of books, newest first. Pages are 1-indexed;
// out-of-range page and perPage values are clamped.
func (s *BookService) GetAllBooks(page, perPage int) ([]entities.Book, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.pagination.DefaultPerPage
	}
	if perPage > s.pagination.MaxPerPage {
		perPage = s.pagination.MaxPerPage
	}
	if page-1 > math.MaxInt/perPage {
		return []entities.Book{}, nil
	}
	offset := (page - 1) * perPage
	return s.store.FindAll(perPage, offset)
}

// SearchBooks matches title, author or isbn. The trimmed query must have at
// least MinSearchLength characters.
func (s *BookService) SearchBooks(query string) ([]entities.Book, error) {
	q, err := normalizeSearchQuery(query)
	if err != nil {
		return nil, err
	}
	return s.store.Search(q)
}

// DeleteBook removes an existing book.
func (s *BookService) DeleteBook(id uint) (bool, error) {
	existing, err := s.store.FindByID(id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, ErrNotFound
	}

	ok, err := s.store.Delete(id)
	if err != nil {
		return false, err
	}
	if ok {
		s.record(entities.AuditActionBookDeleted, *existing)
	}
	return ok, nil
}

// GetBookStats returns the total number of books and the current time.
func (s *BookService) GetBookStats() (BookStats, error) {
	total, err := s.store.Count()
	if err != nil {
		return BookStats{}, fmt.Errorf("count books: %w", err)
	}
	return BookStats{
		TotalBooks: total,
		Timestamp:  s.now().Format(StatsTimestampFormat),
	}, nil
}
