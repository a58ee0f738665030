// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), one-time migration
//	├── books/           # Book inventory CRUD, search, pagination
//	└── audit/           # Inventory audit events
//
// # Startup
//
// Opening a connection and creating the schema are separate steps. Migrate is
// guarded so that calling it more than once never re-runs the migration:
//
//	db, err := database.NewDatabase(cfg.Database)
//	if err != nil {
//		// errors.Is(err, database.ErrConnection) is always true here
//	}
//	if err := db.Migrate(); err != nil { ... }
//
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in Database.Migrate
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
