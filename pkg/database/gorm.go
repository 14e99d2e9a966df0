package database

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// IsSQLite reports whether dsn selects the SQLite driver: an empty DSN or one
// starting with "sqlite:".
func IsSQLite(dsn string) bool {
	return dsn == "" || strings.HasPrefix(dsn, "sqlite:")
}

// sqlitePath follows the URL convention: "sqlite:///tutor.db" is relative and
// "sqlite:////var/tutor.db" absolute. A bare "sqlite:<path>" is used as is.
func sqlitePath(dsn, fallback string) string {
	path := strings.TrimPrefix(dsn, "sqlite:")
	if strings.HasPrefix(path, "//") {
		path = strings.TrimPrefix(path[2:], "/")
	}
	if path == "" {
		return fallback
	}
	return path
}

// NewGormDBFromDSN opens Postgres for a regular DSN and SQLite otherwise.
// SQLite gets a single connection since it serializes writers anyway.
func NewGormDBFromDSN(dsn, fallbackSQLitePath string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: getLogger(logger.Warn)}

	if IsSQLite(dsn) {
		db, err := gorm.Open(sqlite.Open(sqlitePath(dsn, fallbackSQLitePath)), cfg)
		if err != nil {
			return nil, err
		}
		if err := configureConnectionPool(db, 1); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	if err := configureConnectionPool(db, 100); err != nil {
		return nil, err
	}
	return db, nil
}
