// Package history keeps the bounded chat transcript.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagechat/logger"
	"pagechat/models"
	"pagechat/storage"
)

// Store holds the most recent messages in conversation order.
type Store struct {
	mu  sync.Mutex
	kv  storage.Store
	log logger.Logger
	max int
}

// NewStore returns a Store persisted under storage.HistoryKey.
func NewStore(kv storage.Store, log logger.Logger) *Store {
	return &Store{kv: kv, log: log, max: models.MaxStoredMessages}
}

// NewMessage stamps a message with a time-ordered id and the current time.
// Sources are kept only for generated answers.
func NewMessage(content string, isUser bool, sources []string) models.Message {
	msg := models.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Content:   content,
		IsUser:    isUser,
		Timestamp: time.Now().UnixMilli(),
	}
	if !isUser && len(sources) > 0 {
		msg.Sources = append([]string(nil), sources...)
	}
	return msg
}

// Append adds msg at the end and drops the oldest messages past capacity.
func (s *Store) Append(msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return err
	}
	messages = append(messages, msg)
	if len(messages) > s.max {
		messages = messages[len(messages)-s.max:]
	}
	return storage.SetJSON(s.kv, storage.HistoryKey, messages)
}

// All returns the stored messages, oldest first. A read failure is logged and
// reported as an empty history.
func (s *Store) All() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages, err := s.load()
	if err != nil {
		s.log.Error("Failed to read chat history", logger.Error(err))
		return []models.Message{}
	}
	return messages
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Remove(storage.HistoryKey)
}

// load reads the persisted messages. Corrupt data is logged and treated as an
// empty history; any other read failure is returned.
func (s *Store) load() ([]models.Message, error) {
	var messages []models.Message
	if _, err := storage.GetJSON(s.kv, storage.HistoryKey, &messages); err != nil {
		if !errors.Is(err, models.ErrStorageCorrupt) {
			return nil, fmt.Errorf("read chat history: %w", err)
		}
		s.log.Warn("Discarding unreadable chat history", logger.Error(err))
		return []models.Message{}, nil
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
