package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{
		reader: reader,
	}
}

// ListEvents handles GET /audit?limit=&offset=
func (ac *AuditController) ListEvents(c *gin.Context) {
	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	events, total, err := ac.reader.GetEvents(limit, offset)
	if err != nil {
		respondDomainError(c, err, "list audit events")
		return
	}

	respondSuccess(c, http.StatusOK, PaginatedData{
		Items:   events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}

// BookHistory handles GET /books/:id/history
func (ac *AuditController) BookHistory(c *gin.Context) {
	id, ok := parseBookID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Book ID required")
		return
	}

	events, err := ac.reader.GetBookHistory(id)
	if err != nil {
		respondDomainError(c, err, "book history")
		return
	}
	respondSuccess(c, http.StatusOK, events)
}
