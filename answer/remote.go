package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pagechat/metrics"
	"pagechat/models"
	"pagechat/prompt"
	"pagechat/retry"
)

// errMissingCredential is reported when a remote strategy has no API key.
var errMissingCredential = errors.New("no API key configured")

// completer performs one completion round trip.
type completer interface {
	complete(ctx context.Context, system, userPrompt string) (string, error)
	// retryable reports errors worth a second attempt.
	retryable(err error) bool
}

// remoteStrategy renders the prompt, bounds the call with a timeout, retries
// once on transient failures and validates the reply.
type remoteStrategy struct {
	name    string
	c       completer
	timeout time.Duration
	retry   retry.Config
	metrics *metrics.Metrics
}

func newRemoteStrategy(name string, c completer, timeout time.Duration, m *metrics.Metrics) *remoteStrategy {
	cfg := retry.Once()
	cfg.IsRetryable = c.retryable
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &remoteStrategy{name: name, c: c, timeout: timeout, retry: cfg, metrics: m}
}

func (r *remoteStrategy) Name() string { return r.name }

func (r *remoteStrategy) Answer(ctx context.Context, message string, entries []models.ContextEntry) (string, error) {
	userPrompt := prompt.Render(entries, message)

	var text string
	err := retry.Do(ctx, r.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		start := time.Now()
		out, err := r.c.complete(callCtx, SystemInstruction, userPrompt)
		r.metrics.ObserveRemote(r.name, time.Since(start))
		text = out
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", models.ErrUpstreamFailure, r.name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.ErrEmptyResponse
	}
	return text, nil
}
