package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/logger"
	"pagechat/metrics"
	"pagechat/models"
)

type mapSource map[string]models.ContentRecord

func (m mapSource) ByURL(url string) (models.ContentRecord, bool) {
	r, ok := m[url]
	return r, ok
}

// stubStrategy records calls and returns a canned reply.
type stubStrategy struct {
	reply   string
	err     error
	calls   int
	entries []models.ContextEntry
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Answer(_ context.Context, _ string, entries []models.ContextEntry) (string, error) {
	s.calls++
	s.entries = entries
	return s.reply, s.err
}

func newEngine(src mapSource, s Strategy) *Engine {
	return NewEngine(src, s, logger.NewNop(), metrics.New())
}

func TestEngineNoContextNeverCallsStrategy(t *testing.T) {
	stub := &stubStrategy{reply: "x"}
	e := newEngine(mapSource{}, stub)

	res := e.Answer(context.Background(), "question", []string{"https://unknown"})

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, models.ErrNoContext)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, stub.calls)
}

func TestEngineRejectsBlankMessage(t *testing.T) {
	stub := &stubStrategy{reply: "x"}
	e := newEngine(mapSource{"a": {URL: "a"}}, stub)

	res := e.Answer(context.Background(), "   ", []string{"a"})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, models.ErrInvalidInput)
	assert.Zero(t, stub.calls)
}

func TestEngineSuccessCarriesSources(t *testing.T) {
	stub := &stubStrategy{reply: "the answer"}
	src := mapSource{
		"a": {URL: "a", Title: "A", Body: "alpha"},
		"b": {URL: "b", Title: "B", Body: "beta"},
	}
	e := newEngine(src, stub)

	res := e.Answer(context.Background(), "q", []string{"b", "missing", "a"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "the answer", res.Response)
	assert.Equal(t, []string{"b", "a"}, res.Sources)
	require.Len(t, stub.entries, 2)
	assert.Equal(t, "beta", stub.entries[0].Text)
}

func TestEngineStrategyFailureBecomesResult(t *testing.T) {
	stub := &stubStrategy{err: models.ErrEmptyResponse}
	e := newEngine(mapSource{"a": {URL: "a", Body: "x"}}, stub)

	res := e.Answer(context.Background(), "q", []string{"a"})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, models.ErrEmptyResponse)
	assert.ErrorIs(t, res.Err, models.ErrUpstreamFailure)
	assert.Equal(t, models.ErrEmptyResponse.Error(), res.Error)
}

func TestEngineWithHeuristic(t *testing.T) {
	src := mapSource{"https://example.com": {URL: "https://example.com", Title: "Example", Body: "Sentence one is here. Sentence two is here. Short."}}
	e := newEngine(src, NewHeuristicStrategy())

	res := e.Answer(context.Background(), "Can you summarize this?", []string{"https://example.com"})
	require.True(t, res.Success)
	assert.Contains(t, res.Response, "**Example**")
	assert.Contains(t, res.Response, "*Source: https://example.com*")
}

func TestAnswerEntriesValidates(t *testing.T) {
	e := newEngine(mapSource{}, &stubStrategy{reply: "x"})
	res := e.AnswerEntries(context.Background(), "q", nil)
	assert.ErrorIs(t, res.Err, models.ErrInvalidInput)
}

func TestFallbackStrategy(t *testing.T) {
	primary := &stubStrategy{err: errors.New("boom")}
	f := NewFallbackStrategy(primary, NewHeuristicStrategy(), logger.NewNop())
	assert.Equal(t, "stub+heuristic", f.Name())

	out, err := f.Answer(context.Background(), "list the links", []models.ContextEntry{{URL: "u", Title: "t"}})
	require.NoError(t, err)
	assert.Equal(t, NoLinksMessage, out)
	assert.Equal(t, 1, primary.calls)

	primary.err = nil
	primary.reply = "remote"
	out, err = f.Answer(context.Background(), "list the links", nil)
	require.NoError(t, err)
	assert.Equal(t, "remote", out)
}
