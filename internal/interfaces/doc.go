// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book persistence (internal/services/interfaces.go)
//   - Pinger: Store connectivity for /health (internal/http/stores.go)
//   - AuditEventWriter: Audit row inserts from the task queue (internal/tasks/record_event.go)
//
// ## Service Interfaces
//
//   - BookService: Inventory operations used by BooksController (internal/http/stores.go)
//   - BookCreator: Bulk creation used by the import command (internal/cli/import.go)
//
// ## Audit Interfaces
//
//   - EventRecorder: Mutation notifications from BookService (internal/services/interfaces.go)
//   - AuditReader: Audit trail listing (internal/http/stores.go)
//   - AuditEventCleaner: Retention pruning (internal/tasks, internal/scheduler)
//
// ## Background Work Interfaces
//
//   - Enqueuer: Deferred audit writes (internal/audit/service.go)
//   - CleanupEnqueuer: Scheduled cleanup runs (internal/scheduler/audit_cleanup.go)
//   - TaskQueue: Task status and manual runs (internal/http/stores.go)
//
// # Adding a New Store Backend
//
//  1. Add a driver constant in internal/config and a dialector case in
//     database.dialectorFor.
//
//  2. Map the backend's unique-violation error to books.ErrDuplicateISBN in
//     the repository.
//
// # Adding a New Task
//
//  1. Define the task type and queue in internal/tasks:
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig
//
//     func NewReindexQueue(...) backlite.Queue
//
//  2. Register the queue in entrypoint.Run.
//
//  3. Add a case to TasksController.RunTask if it may be triggered manually.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
