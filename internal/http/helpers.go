package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstock/internal/database/books"
	"github.com/mrlokans/bookstock/internal/logger"
	"github.com/mrlokans/bookstock/internal/services"
)

// --- Response Types ---

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"` // field errors for validation failures
	Timestamp string `json:"timestamp"`
}

// MessageData is the payload of update and delete confirmations.
type MessageData struct {
	Message string `json:"message"`
}

// PaginatedData wraps paginated data with metadata.
type PaginatedData struct {
	Items   any   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// now is swapped in tests.
var now = time.Now

func timestamp() string {
	return now().Format(time.RFC3339)
}

// --- Success Response Helpers ---

// respondSuccess sends data in the success envelope.
func respondSuccess(c *gin.Context, status int, data any) {
	c.IndentedJSON(status, SuccessResponse{Success: true, Data: data, Timestamp: timestamp()})
}

// respondMessage sends a {message} payload with 200 OK.
func respondMessage(c *gin.Context, message string) {
	respondSuccess(c, http.StatusOK, MessageData{Message: message})
}

// --- Error Response Helpers ---

// respondError sends the error envelope and aborts the handler chain.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message, Timestamp: timestamp()})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondValidationError sends the first field message plus every field error.
func respondValidationError(c *gin.Context, verr *services.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Success:   false,
		Error:     verr.Error(),
		Details:   verr.Fields,
		Timestamp: timestamp(),
	})
}

// respondDomainError maps service and store errors to the envelope. Every
// failure other than a missing book is a client error.
func respondDomainError(c *gin.Context, err error, context string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidationError(c, verr)
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(c, "Book")
	case errors.Is(err, books.ErrDuplicateISBN):
		respondBadRequest(c, "A book with this ISBN already exists")
	default:
		logger.Log.WithError(err).WithField("context", context).Error("Request failed")
		respondBadRequest(c, err.Error())
	}
}

// --- Parameter Parsing ---

// parseBookID reports whether raw is an integer. Non-positive values are
// numeric but never match a stored book.
func parseBookID(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	if id <= 0 {
		return 0, true
	}
	return uint(id), true
}

// queryInt reads an integer query parameter. Missing or malformed values
// yield fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
