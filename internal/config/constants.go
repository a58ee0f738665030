package config

const (
	// DefaultDatabasePath is the default path for the inventory database
	DefaultDatabasePath = "./bookstock.db"

	// DefaultTasksDatabasePath is used for the task queue when the inventory
	// database is not a local SQLite file
	DefaultTasksDatabasePath = "./bookstock-tasks.db"
)

// Pagination defaults for the books listing
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)
