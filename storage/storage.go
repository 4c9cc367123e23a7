// Package storage is the JSON key/value persistence used by the content and
// history stores.
package storage

import (
	"encoding/json"
	"fmt"

	"pagechat/models"
)

// Store persists JSON documents by key.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Keyspaces.
const (
	ContentKey   = "scraped_websites"
	HistoryKey   = "chat_history"
	FirecrawlKey = "firecrawl_api_key"
	OpenAIKey    = "openai_api_key"
)

// GetJSON decodes the value at key into v. It reports false when the key is
// absent and wraps models.ErrStorageCorrupt when the value does not decode.
func GetJSON(s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", models.ErrStorageCorrupt, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(key, data)
}
