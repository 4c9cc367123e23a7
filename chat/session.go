// Package chat ties scraping, answering and history together for one user.
package chat

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"pagechat/answer"
	"pagechat/content"
	"pagechat/history"
	"pagechat/logger"
	"pagechat/models"
	"pagechat/storage"
)

// Scraper acquires the document for a URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (content.Document, error)
}

// Session runs the user-facing operations. It is safe for concurrent use;
// the stores serialize their own updates.
type Session struct {
	scraper     Scraper
	normalizer  *content.Normalizer
	contents    *content.Store
	history     *history.Store
	engine      *answer.Engine
	credentials *storage.Credentials
	log         logger.Logger
}

// Deps are the collaborators of a Session.
type Deps struct {
	Scraper     Scraper
	Normalizer  *content.Normalizer
	Contents    *content.Store
	History     *history.Store
	Engine      *answer.Engine
	Credentials *storage.Credentials
	Log         logger.Logger
}

func NewSession(d Deps) *Session {
	if d.Normalizer == nil {
		d.Normalizer = content.NewNormalizer()
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return &Session{
		scraper:     d.Scraper,
		normalizer:  d.Normalizer,
		contents:    d.Contents,
		history:     d.History,
		engine:      d.Engine,
		credentials: d.Credentials,
		log:         d.Log,
	}
}

// Scrape fetches rawURL, normalizes it and stores the record.
func (s *Session) Scrape(ctx context.Context, rawURL string) (models.ContentRecord, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		return models.ContentRecord{}, err
	}

	doc, err := s.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return models.ContentRecord{}, err
	}
	record, err := s.normalizer.Normalize(rawURL, doc)
	if err != nil {
		return models.ContentRecord{}, err
	}
	if err := s.contents.Upsert(record); err != nil {
		return models.ContentRecord{}, fmt.Errorf("store content: %w", err)
	}

	s.log.Info("Stored page",
		logger.String("url", record.URL),
		logger.String("title", record.Title),
		logger.Int("links", len(record.Links)))
	return record, nil
}

// Ask records the question, answers it from the content stored for urls and
// records the answer with its sources. The returned message is the assistant
// reply and is zero when answering failed.
func (s *Session) Ask(ctx context.Context, question string, urls []string) (models.Result, models.Message) {
	if strings.TrimSpace(question) != "" {
		s.appendMessage(history.NewMessage(question, true, nil))
	}

	result := s.engine.Answer(ctx, question, urls)
	if !result.Success {
		s.log.Warn("Question not answered",
			logger.Strings("urls", urls),
			logger.Error(result.Err))
		return result, models.Message{}
	}

	reply := history.NewMessage(result.Response, false, urls)
	s.appendMessage(reply)
	return result, reply
}

// Contents returns the cached pages, most recent first.
func (s *Session) Contents() []models.ContentRecord {
	return s.contents.All()
}

func (s *Session) ClearContents() error {
	return s.contents.Clear()
}

// History returns the transcript, oldest first.
func (s *Session) History() []models.Message {
	return s.history.All()
}

func (s *Session) ClearHistory() error {
	return s.history.Clear()
}

// Credential keys accepted by SaveCredential and Credential.
var credentialKeys = map[string]string{
	"firecrawl": storage.FirecrawlKey,
	"openai":    storage.OpenAIKey,
}

// SaveCredential stores an API key for the named service ("firecrawl" or
// "openai"). An empty value removes it.
func (s *Session) SaveCredential(service, value string) error {
	key, ok := credentialKeys[service]
	if !ok {
		return fmt.Errorf("%w: unknown credential %q", models.ErrInvalidInput, service)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s.credentials.Remove(key)
	}
	return s.credentials.Set(key, value)
}

// Credential returns the stored API key for the named service.
func (s *Session) Credential(service string) (string, error) {
	key, ok := credentialKeys[service]
	if !ok {
		return "", fmt.Errorf("%w: unknown credential %q", models.ErrInvalidInput, service)
	}
	return s.credentials.Get(key), nil
}

// appendMessage records msg. A history write failure is logged and does not
// fail the exchange.
func (s *Session) appendMessage(msg models.Message) {
	if err := s.history.Append(msg); err != nil {
		s.log.Error("Failed to save message", logger.String("id", msg.ID), logger.Error(err))
	}
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: URL is required", models.ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: invalid URL %q", models.ErrInvalidInput, raw)
	}
	return nil
}
