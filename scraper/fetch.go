package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxPageBytes bounds how much of a response body is read.
const maxPageBytes = 10 << 20

// FetchRawHTML fetches the HTML content from a given URL.
func FetchRawHTML(ctx context.Context, client *http.Client, url, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for '%s': %w", url, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get URL '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body from '%s': %w", url, err)
	}
	return string(bodyBytes), nil
}
