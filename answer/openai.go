package answer

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"pagechat/metrics"
	"pagechat/retry"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT3Dot5Turbo

// OpenAIConfig configures the OpenAI strategy.
type OpenAIConfig struct {
	Model   string
	BaseURL string
	Timeout time.Duration
	// APIKey resolves the credential per call; it may come from the
	// environment or from a key the user saved.
	APIKey func() string
}

type openaiCompleter struct {
	model   string
	baseURL string
	apiKey  func() string
	client  *http.Client
}

// NewOpenAIStrategy calls the chat completions API directly.
func NewOpenAIStrategy(cfg OpenAIConfig, m *metrics.Metrics) Strategy {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	c := &openaiCompleter{model: model, baseURL: cfg.BaseURL, apiKey: cfg.APIKey, client: &http.Client{}}
	return newRemoteStrategy("openai", c, cfg.Timeout, m)
}

func (o *openaiCompleter) complete(ctx context.Context, system, userPrompt string) (string, error) {
	key := ""
	if o.apiKey != nil {
		key = o.apiKey()
	}
	if key == "" {
		return "", errMissingCredential
	}

	transportCfg := openai.DefaultConfig(key)
	if o.baseURL != "" {
		transportCfg.BaseURL = o.baseURL
	}
	transportCfg.HTTPClient = o.client
	client := openai.NewClientWithConfig(transportCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *openaiCompleter) retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return retry.IsTransient(err)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
