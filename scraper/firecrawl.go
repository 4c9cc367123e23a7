package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pagechat/content"
)

// DefaultFirecrawlURL is the hosted Firecrawl API.
const DefaultFirecrawlURL = "https://api.firecrawl.dev"

// FirecrawlClient calls the Firecrawl scrape endpoint.
type FirecrawlClient struct {
	baseURL string
	client  *http.Client
}

func NewFirecrawlClient(baseURL string, client *http.Client) *FirecrawlClient {
	if baseURL == "" {
		baseURL = DefaultFirecrawlURL
	}
	return &FirecrawlClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type firecrawlResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape returns the structured document for url.
func (f *FirecrawlClient) Scrape(ctx context.Context, apiKey, url string) (content.Document, error) {
	if apiKey == "" {
		return content.Document{}, errors.New("firecrawl: no API key")
	}

	body, err := json.Marshal(firecrawlRequest{
		URL:             url,
		Formats:         []string{"markdown", "html"},
		OnlyMainContent: true,
	})
	if err != nil {
		return content.Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return content.Document{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return content.Document{}, fmt.Errorf("firecrawl API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return content.Document{}, fmt.Errorf("firecrawl API %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var fr firecrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return content.Document{}, fmt.Errorf("firecrawl: decode response: %w", err)
	}
	if !fr.Success {
		msg := fr.Error
		if msg == "" {
			msg = "unsuccessful scrape"
		}
		return content.Document{}, fmt.Errorf("firecrawl: %s", msg)
	}
	return content.Structured(fr.Data.Metadata.Title, fr.Data.Markdown, fr.Data.HTML), nil
}
