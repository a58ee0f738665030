package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"   // File-backed SQLite (default)
	DriverPostgres DatabaseDriver = "postgres" // PostgreSQL via DSN
)

type (
	Config struct {
		HTTP
		Global
		Database
		Pagination
		Log
		Audit
		Tasks
		Auth
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file path
		DSN    string // PostgreSQL connection string
	}
	Pagination struct {
		DefaultPerPage int
		MaxPerPage     int
	}
	Log struct {
		Level  string // logrus level name: debug, info, warn, error
		Format string // "text" or "json"
	}
	Audit struct {
		Enabled         bool
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		DatabasePath    string
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		APITokenHash string // bcrypt hash; empty disables the write guard
	}
	CORS struct {
		AllowedOrigins []string
	}
)

// TasksDatabasePath returns the task queue database path. When not configured
// it sits next to the SQLite database with a "-tasks" suffix.
func TasksDatabasePath(db Database, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if db.Driver != DriverSQLite || db.Path == "" {
		return DefaultTasksDatabasePath
	}
	dir := filepath.Dir(db.Path)
	base := filepath.Base(db.Path)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"-tasks"+ext)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("default_per_page", DefaultPerPage)
	v.SetDefault("max_per_page", MaxPerPage)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("auth_api_token_hash", "")
	v.SetDefault("cors_allowed_origins", "*")

	database := Database{
		Driver: DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
		Path:   v.GetString("DATABASE_PATH"),
		DSN:    v.GetString("DATABASE_DSN"),
	}

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: database,
		Pagination: Pagination{
			DefaultPerPage: v.GetInt("DEFAULT_PER_PAGE"),
			MaxPerPage:     v.GetInt("MAX_PER_PAGE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			DatabasePath:    TasksDatabasePath(database, v.GetString("TASKS_DATABASE_PATH")),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			APITokenHash: v.GetString("AUTH_API_TOKEN_HASH"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}
