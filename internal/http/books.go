package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstock/internal/entities"
)

type BooksController struct {
	service BookService
}

func NewBooksController(service BookService) *BooksController {
	return &BooksController{
		service: service,
	}
}

// Get handles GET /books and GET /books/:id. A non-numeric id falls through
// to search, stats or the paginated list, in that order.
func (bc *BooksController) Get(c *gin.Context) {
	if id, ok := parseBookID(c.Param("id")); ok {
		bc.getBook(c, id)
		return
	}

	if query, ok := c.GetQuery("search"); ok {
		found, err := bc.service.SearchBooks(query)
		if err != nil {
			respondDomainError(c, err, "search books")
			return
		}
		respondSuccess(c, http.StatusOK, bookMaps(found))
		return
	}

	if _, ok := c.GetQuery("stats"); ok {
		stats, err := bc.service.GetBookStats()
		if err != nil {
			respondDomainError(c, err, "book stats")
			return
		}
		respondSuccess(c, http.StatusOK, stats)
		return
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 0)
	list, err := bc.service.GetAllBooks(page, perPage)
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}
	respondSuccess(c, http.StatusOK, bookMaps(list))
}

func (bc *BooksController) getBook(c *gin.Context, id uint) {
	book, err := bc.service.GetBook(id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "Book")
		return
	}
	respondSuccess(c, http.StatusOK, book.ToMap())
}

// Create handles POST /books.
func (bc *BooksController) Create(c *gin.Context) {
	fields, ok := bindJSONObject(c)
	if !ok {
		return
	}

	book, err := bc.service.CreateBook(fields)
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}
	respondSuccess(c, http.StatusCreated, book.ToMap())
}

// Update handles PUT /books/:id.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseBookID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Book ID required")
		return
	}

	fields, ok := bindJSONObject(c)
	if !ok {
		return
	}

	updated, err := bc.service.UpdateBook(id, fields)
	if err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	if !updated {
		respondError(c, http.StatusInternalServerError, "Failed to update book")
		return
	}
	respondMessage(c, "Book updated successfully")
}

// Delete handles DELETE /books/:id.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseBookID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Book ID required")
		return
	}

	deleted, err := bc.service.DeleteBook(id)
	if err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	if !deleted {
		respondError(c, http.StatusInternalServerError, "Failed to delete book")
		return
	}
	respondMessage(c, "Book deleted successfully")
}

// bindJSONObject decodes the request body into an untyped object. A JSON
// null body is treated as an empty object.
func bindJSONObject(c *gin.Context) (map[string]any, bool) {
	body, err := c.GetRawData()
	if err != nil || strings.TrimSpace(string(body)) == "" {
		respondBadRequest(c, "Invalid JSON input")
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		respondBadRequest(c, "Invalid JSON input")
		return nil, false
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, true
}

func bookMaps(list []entities.Book) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, b := range list {
		out = append(out, b.ToMap())
	}
	return out
}
