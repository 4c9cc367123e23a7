// Package scraper acquires pages: a Firecrawl structured scrape when a key is
// available, and a plain HTTP fetch otherwise or when Firecrawl fails.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pagechat/content"
	"pagechat/logger"
	"pagechat/metrics"
	"pagechat/models"
)

// Methods reported to metrics.
const (
	MethodFirecrawl = "firecrawl"
	MethodFetch     = "fetch"
)

// Config configures a Scraper.
type Config struct {
	FirecrawlURL string
	Timeout      time.Duration
	UserAgent    string
	// FirecrawlKey resolves the Firecrawl credential at call time, so a key
	// saved while the process runs is picked up.
	FirecrawlKey func() string
}

// Scraper acquires raw documents.
type Scraper struct {
	cfg       Config
	client    *http.Client
	firecrawl *FirecrawlClient
	log       logger.Logger
	metrics   *metrics.Metrics
}

func New(cfg Config, log logger.Logger, m *metrics.Metrics) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.FirecrawlKey == nil {
		cfg.FirecrawlKey = func() string { return "" }
	}
	client := &http.Client{Timeout: cfg.Timeout}
	return &Scraper{
		cfg:       cfg,
		client:    client,
		firecrawl: NewFirecrawlClient(cfg.FirecrawlURL, client),
		log:       log,
		metrics:   m,
	}
}

// Scrape returns the document for url. Only the final plain-fetch failure is
// reported, wrapped as models.ErrFetchFailed.
func (s *Scraper) Scrape(ctx context.Context, url string) (content.Document, error) {
	key := s.cfg.FirecrawlKey()
	if key != "" {
		doc, err := s.firecrawl.Scrape(ctx, key, url)
		s.metrics.ObserveScrape(MethodFirecrawl, err)
		if err == nil {
			s.log.Info("Scraped with Firecrawl", logger.String("url", url))
			return doc, nil
		}
		s.log.Warn("Firecrawl failed, falling back to simple fetch",
			logger.String("url", url), logger.Error(err))
	}

	html, err := FetchRawHTML(ctx, s.client, url, s.cfg.UserAgent)
	s.metrics.ObserveScrape(MethodFetch, err)
	if err != nil {
		if key == "" {
			return content.Document{}, fmt.Errorf("%w: %v. Try setting a Firecrawl API key for better results", models.ErrFetchFailed, err)
		}
		return content.Document{}, fmt.Errorf("%w: %v", models.ErrFetchFailed, err)
	}
	s.log.Info("Fetched page", logger.String("url", url), logger.Int("bytes", len(html)))
	return content.RawHTML(html), nil
}
