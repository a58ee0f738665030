package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/entities"
	applog "github.com/mrlokans/bookstock/internal/logger"
)

// ErrConnection is returned when the store cannot be opened or reached.
var ErrConnection = errors.New("database connection failed")

type Database struct {
	DB *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: sqlite path is empty", ErrConnection)
		}
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: postgres DSN is empty", ErrConnection)
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrConnection, cfg.Driver)
	}
}

// NewDatabase opens the store and verifies it is reachable. It does not
// create any tables; call Migrate once at startup.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if applog.Log.IsLevelEnabled(logrus.DebugLevel) {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	database := &Database{DB: db}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	applog.Log.WithField("driver", dialector.Name()).Info("Database connection established")

	return database, nil
}

// Migrate creates the schema if absent. Only the first call touches the
// store; later calls return the first result.
func (d *Database) Migrate() error {
	d.migrateOnce.Do(func() {
		err := d.DB.AutoMigrate(
			&entities.Book{},
			&entities.AuditEvent{},
		)
		if err != nil {
			d.migrateErr = fmt.Errorf("failed to migrate database: %w", err)
			return
		}
		applog.Log.Info("Database schema is up to date")
	})
	return d.migrateErr
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
