// Package books provides database operations for the book inventory.
//
// This package implements the BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByID(123)
package books

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstock/internal/entities"
)

// ErrDuplicateISBN is returned when an insert or update collides with the
// unique isbn index.
var ErrDuplicateISBN = errors.New("a book with this ISBN already exists")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// isUniqueViolation detects unique-constraint failures. gorm translates them
// when TranslateError is on; the sqlite3 check covers connections opened
// without it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func translate(err error, isbn string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateISBN, isbn)
	}
	return err
}

// Create inserts the book and fills its ID and timestamps.
func (r *Repository) Create(book *entities.Book) error {
	if book.IsPersisted() {
		return fmt.Errorf("book already has id %d", book.ID)
	}
	if err := r.db.Create(book).Error; err != nil {
		return translate(err, book.ISBN)
	}
	return nil
}

// FindByID returns nil, nil when no book has the given id.
func (r *Repository) FindByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAll returns a page of books, newest first.
func (r *Repository) FindAll(limit, offset int) ([]entities.Book, error) {
	books := []entities.Book{}
	query := r.db.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&books).Error
	return books, err
}

// Search matches title, author or isbn (case-insensitive partial match),
// ordered by title.
func (r *Repository) Search(query string) ([]entities.Book, error) {
	books := []entities.Book{}
	searchPattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?)",
			searchPattern, searchPattern, searchPattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// Update replaces every mutable field of the row with book.ID. It reports
// false when no row matched.
func (r *Repository) Update(book *entities.Book) (bool, error) {
	now := time.Now()
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":       book.Title,
		"author":      book.Author,
		"isbn":        book.ISBN,
		"price":       book.Price,
		"quantity":    book.Quantity,
		"description": book.Description,
		"updated_at":  now,
	})
	if result.Error != nil {
		return false, translate(result.Error, book.ISBN)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	book.UpdatedAt = now
	return true, nil
}

// Delete removes the row. It reports false when no row matched.
func (r *Repository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Count(&total).Error
	return total, err
}
