package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the relational store named by databaseURL.
// postgres:// and postgresql:// URLs use PostgreSQL; sqlite:<path> and file: URLs use SQLite.
func ConnectDatabase(databaseURL string) error {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// SQLite serializes writers; a single connection also keeps :memory: databases intact
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	zap.L().Info("Database connection established", zap.String("driver", dialector.Name()))
	return nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	switch {
	case databaseURL == "":
		return nil, fmt.Errorf("database URL is empty")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:")), nil
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
