package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.

import (
	"github.com/mrlokans/bookstock/internal/audit"
	"github.com/mrlokans/bookstock/internal/cli"
	"github.com/mrlokans/bookstock/internal/database"
	auditrepo "github.com/mrlokans/bookstock/internal/database/audit"
	"github.com/mrlokans/bookstock/internal/database/books"
	"github.com/mrlokans/bookstock/internal/http"
	"github.com/mrlokans/bookstock/internal/scheduler"
	"github.com/mrlokans/bookstock/internal/services"
	"github.com/mrlokans/bookstock/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ tasks.AuditEventWriter = (*auditrepo.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.BookService = (*services.BookService)(nil)
var _ cli.BookCreator = (*services.BookService)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ services.EventRecorder = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ audit.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
