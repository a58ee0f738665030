package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookService
	Database Pinger

	// Audit trail (optional)
	Audit              AuditReader
	AuditRetentionDays int

	// Task queue client (optional)
	Tasks TaskQueue

	// Write guard; empty disables it
	APITokenHash string

	// CORS; empty disables the middleware
	CORSAllowedOrigins []string

	// Application info
	Version string
}
