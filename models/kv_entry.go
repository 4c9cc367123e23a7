package models

import "time"

// KVEntry is one persisted key/value pair of the SQL-backed store.
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey"`
	Value     string    `gorm:"not null"` // JSON document
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name independent of GORM's pluralisation rules.
func (KVEntry) TableName() string {
	return "kv_entries"
}
