package answer

import (
	"context"
	"fmt"
	"strings"

	"pagechat/logger"
	"pagechat/metrics"
	"pagechat/models"
	"pagechat/prompt"
)

// Engine resolves URLs to context and delegates to the configured Strategy.
// It holds no per-request state.
type Engine struct {
	records  prompt.RecordSource
	strategy Strategy
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewEngine(records prompt.RecordSource, strategy Strategy, log logger.Logger, m *metrics.Metrics) *Engine {
	return &Engine{records: records, strategy: strategy, log: log, metrics: m}
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Answer answers message from the content stored for urls. Every failure is
// reported in the Result; Answer never returns an error or panics on bad input.
func (e *Engine) Answer(ctx context.Context, message string, urls []string) models.Result {
	if strings.TrimSpace(message) == "" {
		return models.Failure(fmt.Errorf("%w: message is required", models.ErrInvalidInput))
	}

	entries := prompt.Assemble(urls, e.records)
	if len(entries) == 0 {
		return models.Failure(models.ErrNoContext)
	}

	return e.AnswerEntries(ctx, message, entries)
}

// AnswerEntries answers message from already assembled entries.
func (e *Engine) AnswerEntries(ctx context.Context, message string, entries []models.ContextEntry) models.Result {
	if strings.TrimSpace(message) == "" || len(entries) == 0 {
		return models.Failure(fmt.Errorf("%w: message and context are required", models.ErrInvalidInput))
	}

	response, err := e.strategy.Answer(ctx, message, entries)
	e.metrics.ObserveAnswer(e.strategy.Name(), err)
	if err != nil {
		e.log.Error("Answer failed",
			logger.String("strategy", e.strategy.Name()),
			logger.Int("entries", len(entries)),
			logger.Error(err))
		return models.Failure(err)
	}

	sources := make([]string, len(entries))
	for i, entry := range entries {
		sources[i] = entry.URL
	}
	return models.Result{Success: true, Response: response, Sources: sources}
}
