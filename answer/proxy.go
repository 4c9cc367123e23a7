package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pagechat/metrics"
	"pagechat/models"
	"pagechat/retry"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message  string        `json:"message"`
	Contexts []ChatContext `json:"contexts"`
}

// ChatContext is one context entry as sent to /api/chat.
type ChatContext struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// ChatResponse is the body returned by /api/chat.
type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ProxyConfig configures the proxy strategy.
type ProxyConfig struct {
	BaseURL string
	Timeout time.Duration
}

// proxyCompleter sends the question to a trusted intermediary that holds the
// model credential. The intermediary builds the prompt itself, so the
// completer carries the raw message and entries instead of a rendered prompt.
type proxyCompleter struct {
	baseURL string
	client  *http.Client
}

type proxyStrategy struct {
	c       *proxyCompleter
	timeout time.Duration
	retry   retry.Config
	metrics *metrics.Metrics
}

// NewProxyStrategy calls POST {BaseURL}/api/chat.
func NewProxyStrategy(cfg ProxyConfig, m *metrics.Metrics) Strategy {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &proxyStrategy{
		c:       &proxyCompleter{baseURL: strings.TrimRight(cfg.BaseURL, "/"), client: &http.Client{}},
		timeout: timeout,
		retry:   retry.Once(),
		metrics: m,
	}
}

func (p *proxyStrategy) Name() string { return "proxy" }

func (p *proxyStrategy) Answer(ctx context.Context, message string, entries []models.ContextEntry) (string, error) {
	req := ChatRequest{Message: message, Contexts: make([]ChatContext, len(entries))}
	for i, e := range entries {
		req.Contexts[i] = ChatContext{Title: e.Title, URL: e.URL, Text: e.Text}
	}

	var text string
	err := retry.Do(ctx, p.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		start := time.Now()
		out, err := p.c.post(callCtx, req)
		p.metrics.ObserveRemote("proxy", time.Since(start))
		text = out
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: proxy: %w", models.ErrUpstreamFailure, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.ErrEmptyResponse
	}
	return text, nil
}

func (c *proxyCompleter) post(ctx context.Context, chat ChatRequest) (string, error) {
	body, err := json.Marshal(chat)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var cr ChatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if cr.Error != "" {
			return "", fmt.Errorf("API error: %d: %s", resp.StatusCode, cr.Error)
		}
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return cr.Response, nil
}
