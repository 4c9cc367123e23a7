package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pagechat/logger"
	"pagechat/models"
)

// Open connects to the sqlite database at path, creating its directory when
// needed, and auto-migrates the schema.
func Open(path string, log logger.Logger) (*gorm.DB, error) {
	if path != ":memory:" && !isURI(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database at %s: %w", path, err)
	}
	log.Info("Database connection established", logger.String("path", path))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("auto-migrate database schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isURI(path string) bool {
	return len(path) > 5 && path[:5] == "file:"
}
