package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pagechat/models"
)

// SQLStore persists values in the kv_entries table through GORM.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps a migrated database handle.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.Where("kv_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *SQLStore) Set(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(key string) error {
	if err := s.db.Where("kv_key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
