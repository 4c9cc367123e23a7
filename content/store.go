package content

import (
	"errors"
	"fmt"
	"sync"

	"pagechat/logger"
	"pagechat/models"
	"pagechat/storage"
)

// Store caches the most recent ContentRecords, newest first.
type Store struct {
	mu  sync.Mutex
	kv  storage.Store
	log logger.Logger
	max int
}

// NewStore returns a Store persisted under storage.ContentKey.
func NewStore(kv storage.Store, log logger.Logger) *Store {
	return &Store{kv: kv, log: log, max: models.MaxStoredRecords}
}

// Upsert replaces any record with the same URL and moves it to the front,
// evicting the oldest records past capacity.
func (s *Store) Upsert(record models.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	updated := make([]models.ContentRecord, 0, len(existing)+1)
	updated = append(updated, record)
	for _, r := range existing {
		if r.URL != record.URL {
			updated = append(updated, r)
		}
	}
	if len(updated) > s.max {
		updated = updated[:s.max]
	}
	return storage.SetJSON(s.kv, storage.ContentKey, updated)
}

// All returns every cached record, most recent first. A read failure is
// logged and reported as an empty cache.
func (s *Store) All() []models.ContentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		s.log.Error("Failed to read content cache", logger.Error(err))
		return []models.ContentRecord{}
	}
	return records
}

// ByURL returns the record stored for url.
func (s *Store) ByURL(url string) (models.ContentRecord, bool) {
	for _, r := range s.All() {
		if r.URL == url {
			return r, true
		}
	}
	return models.ContentRecord{}, false
}

// Clear drops every cached record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Remove(storage.ContentKey)
}

// load reads the persisted records. Corrupt data is logged and treated as an
// empty cache; any other read failure is returned.
func (s *Store) load() ([]models.ContentRecord, error) {
	var records []models.ContentRecord
	if _, err := storage.GetJSON(s.kv, storage.ContentKey, &records); err != nil {
		if !errors.Is(err, models.ErrStorageCorrupt) {
			return nil, fmt.Errorf("read content cache: %w", err)
		}
		s.log.Warn("Discarding unreadable content cache", logger.Error(err))
		return []models.ContentRecord{}, nil
	}
	if records == nil {
		records = []models.ContentRecord{}
	}
	return records, nil
}
