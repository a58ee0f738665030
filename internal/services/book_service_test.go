package services

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/database/books"
	"github.com/mrlokans/bookstock/internal/entities"
)

type recordedEvent struct {
	action entities.AuditAction
	book   entities.Book
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *fakeRecorder) RecordBookEvent(action entities.AuditAction, book entities.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{action: action, book: book})
}

func setupService(t *testing.T) (*BookService, *books.Repository, *fakeRecorder) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "service.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	repo := books.NewRepository(db)
	recorder := &fakeRecorder{}
	service := NewBookService(repo, config.Pagination{})
	service.SetEventRecorder(recorder)
	return service, repo, recorder
}

func TestBookService_CreateThenGet(t *testing.T) {
	service, _, recorder := setupService(t)

	created, err := service.CreateBook(validFields())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := service.GetBook(created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, entities.BookFields{
		Title:       "Modern Go Development",
		Author:      "Jane Doe",
		ISBN:        "978-0123456789",
		Price:       29.99,
		Quantity:    10,
		Description: "A comprehensive guide.",
	}, found.Fields())
	assert.False(t, found.CreatedAt.IsZero())
	assert.False(t, found.UpdatedAt.IsZero())

	require.Len(t, recorder.events, 1)
	assert.Equal(t, entities.AuditActionBookCreated, recorder.events[0].action)
	assert.Equal(t, created.ID, recorder.events[0].book.ID)
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	service, repo, recorder := setupService(t)

	fields := validFields()
	fields["isbn"] = "abc"

	_, err := service.CreateBook(fields)
	require.Error(t, err)
	assertValidationError(t, err)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, recorder.events)
}

func TestBookService_CreateBook_DuplicateISBN(t *testing.T) {
	service, repo, _ := setupService(t)

	_, err := service.CreateBook(validFields())
	require.NoError(t, err)

	second := validFields()
	second["title"] = "Another Title"
	_, err = service.CreateBook(second)
	require.Error(t, err)
	assert.ErrorIs(t, err, books.ErrDuplicateISBN)

	matches, err := repo.Search("978-0123456789")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestBookService_UpdateBook(t *testing.T) {
	t.Run("replaces all fields", func(t *testing.T) {
		service, _, recorder := setupService(t)

		created, err := service.CreateBook(validFields())
		require.NoError(t, err)

		ok, err := service.UpdateBook(created.ID, map[string]any{
			"title":    "Second Edition",
			"author":   "Jane Doe",
			"isbn":     "978-0123456780",
			"price":    "35",
			"quantity": 2,
		})
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := service.GetBook(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Second Edition", found.Title)
		assert.Equal(t, 35.0, found.Price)
		assert.Equal(t, 2, found.Quantity)
		assert.Empty(t, found.Description, "omitted description is cleared")

		require.Len(t, recorder.events, 2)
		assert.Equal(t, entities.AuditActionBookUpdated, recorder.events[1].action)
	})

	t.Run("unknown id is not found and changes nothing", func(t *testing.T) {
		service, repo, _ := setupService(t)

		created, err := service.CreateBook(validFields())
		require.NoError(t, err)

		ok, err := service.UpdateBook(created.ID+100, validFields())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrNotFound)

		found, err := repo.FindByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Fields(), found.Fields())
		total, _ := repo.Count()
		assert.Equal(t, int64(1), total)
	})

	t.Run("invalid fields are rejected", func(t *testing.T) {
		service, repo, _ := setupService(t)

		created, err := service.CreateBook(validFields())
		require.NoError(t, err)

		fields := validFields()
		fields["price"] = -5
		ok, err := service.UpdateBook(created.ID, fields)
		assert.False(t, ok)
		assertValidationError(t, err)

		found, _ := repo.FindByID(created.ID)
		assert.Equal(t, 29.99, found.Price)
	})
}

func TestBookService_GetBook_Absent(t *testing.T) {
	service, _, _ := setupService(t)

	found, err := service.GetBook(123)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestBookService_GetAllBooks(t *testing.T) {
	t.Run("page two of five with twelve books", func(t *testing.T) {
		service, _, _ := setupService(t)

		for i := 1; i <= 12; i++ {
			fields := validFields()
			fields["title"] = fmt.Sprintf("Book %02d", i)
			fields["isbn"] = fmt.Sprintf("978-00000000%02d", i)
			_, err := service.CreateBook(fields)
			require.NoError(t, err)
		}

		page, err := service.GetAllBooks(2, 5)
		require.NoError(t, err)
		require.Len(t, page, 5)
		assert.Equal(t, "Book 07", page[0].Title)
		assert.Equal(t, "Book 03", page[4].Title)
	})

	t.Run("page two is empty with fewer than six books", func(t *testing.T) {
		service, _, _ := setupService(t)

		for i := 1; i <= 5; i++ {
			fields := validFields()
			fields["isbn"] = fmt.Sprintf("978-00000000%02d", i)
			_, err := service.CreateBook(fields)
			require.NoError(t, err)
		}

		page, err := service.GetAllBooks(2, 5)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

func TestBookService_GetAllBooks_Clamping(t *testing.T) {
	store := &stubStore{}
	service := NewBookService(store, config.Pagination{DefaultPerPage: 20, MaxPerPage: 50})

	tests := []struct {
		name          string
		page, perPage int
		limit, offset int
	}{
		{"defaults", 1, 20, 20, 0},
		{"page zero becomes one", 0, 10, 10, 0},
		{"negative per page uses default", 3, -1, 20, 40},
		{"per page capped", 2, 500, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetAllBooks(tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.limit, store.lastLimit)
			assert.Equal(t, tt.offset, store.lastOffset)
		})
	}
}

func TestBookService_GetAllBooks_HugePageIsEmpty(t *testing.T) {
	service, _, _ := setupService(t)

	for i := 1; i <= 3; i++ {
		fields := validFields()
		fields["isbn"] = fmt.Sprintf("978-00000000%02d", i)
		_, err := service.CreateBook(fields)
		require.NoError(t, err)
	}

	for _, page := range []int{math.MaxInt / 10, math.MaxInt} {
		list, err := service.GetAllBooks(page, 20)
		require.NoError(t, err)
		assert.Empty(t, list, "page %d", page)
	}
}

func TestBookService_CreateBook_RejectsNonScalarText(t *testing.T) {
	service, _, _ := setupService(t)

	fields := validFields()
	fields["title"] = []any{"x"}
	fields["author"] = map[string]any{"a": 1}

	_, err := service.CreateBook(fields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Field 'title' is required", verr.Error())
	assert.True(t, verr.has("author"))

	all, err := service.GetAllBooks(1, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookService_SearchBooks(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.CreateBook(validFields())
	require.NoError(t, err)

	t.Run("single character is rejected", func(t *testing.T) {
		_, err := service.SearchBooks("a")
		require.Error(t, err)
		assertValidationError(t, err)
		assert.Equal(t, "Search query must be at least 2 characters long", err.Error())
	})

	t.Run("two characters succeed", func(t *testing.T) {
		results, err := service.SearchBooks("ab")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("matches title", func(t *testing.T) {
		results, err := service.SearchBooks(" modern ")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	service, _, recorder := setupService(t)

	created, err := service.CreateBook(validFields())
	require.NoError(t, err)

	ok, err := service.DeleteBook(created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := service.GetBook(created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	ok, err = service.DeleteBook(created.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, entities.AuditActionBookDeleted, recorder.events[1].action)
	assert.Equal(t, "978-0123456789", recorder.events[1].book.ISBN)
}

func TestBookService_GetBookStats(t *testing.T) {
	service, _, _ := setupService(t)
	service.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }

	_, err := service.CreateBook(validFields())
	require.NoError(t, err)

	stats, err := service.GetBookStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBooks)
	assert.Equal(t, "2024-06-01 09:30:00", stats.Timestamp)
}

// stubStore lets tests control store outcomes that a real database rarely produces.
type stubStore struct {
	book       *entities.Book
	updateOK   bool
	deleteOK   bool
	err        error
	lastLimit  int
	lastOffset int
}

func (s *stubStore) Create(book *entities.Book) error { return s.err }
func (s *stubStore) FindByID(id uint) (*entities.Book, error) {
	return s.book, s.err
}
func (s *stubStore) FindAll(limit, offset int) ([]entities.Book, error) {
	s.lastLimit, s.lastOffset = limit, offset
	return []entities.Book{}, s.err
}
func (s *stubStore) Search(query string) ([]entities.Book, error) { return nil, s.err }
func (s *stubStore) Update(book *entities.Book) (bool, error) { return s.updateOK, nil }
func (s *stubStore) Delete(id uint) (bool, error) { return s.deleteOK, nil }
func (s *stubStore) Count() (int64, error) { return 0, s.err }

func TestBookService_StoreReportsNoChange(t *testing.T) {
	existing := entities.NewBook(entities.BookFields{Title: "T", Author: "A", ISBN: "1234567890"})
	existing.ID = 1
	recorder := &fakeRecorder{}
	service := NewBookService(&stubStore{book: &existing}, config.Pagination{})
	service.SetEventRecorder(recorder)

	ok, err := service.UpdateBook(1, validFields())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = service.DeleteBook(1)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, recorder.events)
}

func TestBookService_PropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	service := NewBookService(&stubStore{err: storeErr}, config.Pagination{})

	_, err := service.CreateBook(validFields())
	assert.ErrorIs(t, err, storeErr)

	_, err = service.UpdateBook(1, validFields())
	assert.ErrorIs(t, err, storeErr)

	_, err = service.DeleteBook(1)
	assert.ErrorIs(t, err, storeErr)

	_, err = service.GetBookStats()
	assert.ErrorIs(t, err, storeErr)
}
