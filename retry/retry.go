// Package retry runs an operation again when it fails transiently.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts includes the initial attempt.
	MaxAttempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// IsRetryable decides whether an error is worth another attempt.
	IsRetryable func(error) bool
}

// Once allows a single retry after a short pause.
func Once() Config {
	return Config{
		MaxAttempts: 2,
		Delay:       250 * time.Millisecond,
		IsRetryable: IsTransient,
	}
}

var transientPatterns = []string{
	"timeout",
	"deadline exceeded",
	"connection refused",
	"connection reset",
	"temporary failure",
	"i/o timeout",
	"eof",
}

// IsTransient reports network-level failures that may succeed when repeated.
// Cancellation by the caller is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = IsTransient
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.IsRetryable(lastErr) || attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(cfg.Delay):
		}
	}
	if cfg.MaxAttempts > 1 && cfg.IsRetryable(lastErr) {
		return fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
	}
	return lastErr
}
