// Package answer produces answers to questions about stored page content,
// either from a remote completion model or from a local heuristic responder.
package answer

import (
	"context"

	"pagechat/models"
)

// Completion request parameters shared by every remote strategy.
const (
	SystemInstruction = "You are a helpful assistant that answers questions about website content."
	MaxOutputTokens   = 500
	Temperature       = 0.7
)

// Strategy answers a question from assembled context entries.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	Answer(ctx context.Context, message string, entries []models.ContextEntry) (string, error)
}
