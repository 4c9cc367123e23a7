package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pagechat/metrics"
	"pagechat/retry"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicConfig configures the Anthropic strategy.
type AnthropicConfig struct {
	Model   string
	BaseURL string
	Timeout time.Duration
	APIKey  func() string
}

type anthropicCompleter struct {
	model   string
	baseURL string
	apiKey  func() string
}

// NewAnthropicStrategy calls the Messages API.
func NewAnthropicStrategy(cfg AnthropicConfig, m *metrics.Metrics) Strategy {
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	c := &anthropicCompleter{model: model, baseURL: cfg.BaseURL, apiKey: cfg.APIKey}
	return newRemoteStrategy("anthropic", c, cfg.Timeout, m)
}

func (a *anthropicCompleter) complete(ctx context.Context, system, userPrompt string) (string, error) {
	key := ""
	if a.apiKey != nil {
		key = a.apiKey()
	}
	if key == "" {
		return "", errMissingCredential
	}

	// The SDK's own retries are disabled; remoteStrategy owns the retry policy.
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if a.baseURL != "" {
		opts = append(opts, option.WithBaseURL(a.baseURL))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   MaxOutputTokens,
		Temperature: anthropic.Float(Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (a *anthropicCompleter) retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.StatusCode)
	}
	return retry.IsTransient(err)
}
