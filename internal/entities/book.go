package entities

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Book is one inventory item. ID is zero until the store assigns it on insert.
type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:255;not null" json:"title"`
	Author      string    `gorm:"index;size:255;not null" json:"author"`
	ISBN        string    `gorm:"column:isbn;uniqueIndex;size:20;not null" json:"isbn"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookFields are the mutable attributes of a book.
type BookFields struct {
	Title       string
	Author      string
	ISBN        string
	Price       float64
	Quantity    int
	Description string
}

// NewBook builds a not-yet-persisted book from all mutable fields.
func NewBook(f BookFields) Book {
	return Book{
		Title:       f.Title,
		Author:      f.Author,
		ISBN:        f.ISBN,
		Price:       f.Price,
		Quantity:    f.Quantity,
		Description: f.Description,
	}
}

// WithFields returns a copy of b with every mutable field replaced.
// Identity and timestamps are kept.
func (b Book) WithFields(f BookFields) Book {
	out := NewBook(f)
	out.ID = b.ID
	out.CreatedAt = b.CreatedAt
	out.UpdatedAt = b.UpdatedAt
	return out
}

// Fields returns the mutable attributes of b.
func (b Book) Fields() BookFields {
	return BookFields{
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       b.Price,
		Quantity:    b.Quantity,
		Description: b.Description,
	}
}

// IsPersisted reports whether the store has assigned an ID.
func (b Book) IsPersisted() bool {
	return b.ID != 0
}

// ToMap returns the generic key-value form of b. Absent id and zero
// timestamps are nil.
func (b Book) ToMap() map[string]any {
	m := map[string]any{
		"id":          nil,
		"title":       b.Title,
		"author":      b.Author,
		"isbn":        b.ISBN,
		"price":       b.Price,
		"quantity":    b.Quantity,
		"description": b.Description,
		"created_at":  nil,
		"updated_at":  nil,
	}
	if b.ID != 0 {
		m["id"] = b.ID
	}
	if !b.CreatedAt.IsZero() {
		m["created_at"] = b.CreatedAt
	}
	if !b.UpdatedAt.IsZero() {
		m["updated_at"] = b.UpdatedAt
	}
	return m
}

// BookFromMap builds a book from its key-value form. Missing keys take zero
// values. Numbers may be Go numerics or numeric strings; timestamps may be
// time.Time or RFC 3339 / "2006-01-02 15:04:05" strings.
func BookFromMap(data map[string]any) (Book, error) {
	var b Book
	var err error

	if v, ok := data["id"]; ok && v != nil {
		b.ID, err = cast.ToUintE(v)
		if err != nil {
			return Book{}, fmt.Errorf("invalid id: %w", err)
		}
	}

	b.Title = cast.ToString(data["title"])
	b.Author = cast.ToString(data["author"])
	b.ISBN = cast.ToString(data["isbn"])
	b.Description = cast.ToString(data["description"])

	if v, ok := data["price"]; ok && v != nil {
		b.Price, err = cast.ToFloat64E(v)
		if err != nil {
			return Book{}, fmt.Errorf("invalid price: %w", err)
		}
	}
	if v, ok := data["quantity"]; ok && v != nil {
		b.Quantity, err = cast.ToIntE(v)
		if err != nil {
			return Book{}, fmt.Errorf("invalid quantity: %w", err)
		}
	}

	if b.CreatedAt, err = timeFromValue(data["created_at"]); err != nil {
		return Book{}, fmt.Errorf("invalid created_at: %w", err)
	}
	if b.UpdatedAt, err = timeFromValue(data["updated_at"]); err != nil {
		return Book{}, fmt.Errorf("invalid updated_at: %w", err)
	}

	return b, nil
}

func timeFromValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, nil
		}
		return *t, nil
	case string:
		if t == "" {
			return time.Time{}, nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, nil
		}
		return time.Parse(time.DateTime, t)
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", v)
	}
}
