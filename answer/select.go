package answer

import (
	"fmt"

	"pagechat/config"
	"pagechat/logger"
	"pagechat/metrics"
)

// Keys resolves model credentials at call time.
type Keys struct {
	OpenAI    func() string
	Anthropic func() string
}

// New builds the strategy named by cfg.Mode. ModeAuto picks OpenAI when an
// OpenAI key resolves now and the heuristic responder otherwise. With
// cfg.Fallback a remote strategy is wrapped so failures are answered
// heuristically.
func New(cfg config.AnswerConfig, keys Keys, log logger.Logger, m *metrics.Metrics) (Strategy, error) {
	mode := cfg.Mode
	if mode == config.ModeAuto || mode == "" {
		mode = config.ModeHeuristic
		if keys.OpenAI != nil && keys.OpenAI() != "" {
			mode = config.ModeOpenAI
		}
	}

	var remote Strategy
	switch mode {
	case config.ModeHeuristic:
		log.Info("Answer strategy selected", logger.String("strategy", "heuristic"))
		return NewHeuristicStrategy(), nil
	case config.ModeOpenAI:
		remote = NewOpenAIStrategy(OpenAIConfig{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			APIKey:  keys.OpenAI,
		}, m)
	case config.ModeAnthropic:
		remote = NewAnthropicStrategy(AnthropicConfig{
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			APIKey:  keys.Anthropic,
		}, m)
	case config.ModeProxy:
		remote = NewProxyStrategy(ProxyConfig{BaseURL: cfg.ProxyURL, Timeout: cfg.Timeout}, m)
	default:
		return nil, fmt.Errorf("unknown answer mode %q", cfg.Mode)
	}

	if cfg.Fallback {
		remote = NewFallbackStrategy(remote, NewHeuristicStrategy(), log)
	}
	log.Info("Answer strategy selected",
		logger.String("strategy", remote.Name()),
		logger.Bool("fallback", cfg.Fallback),
		logger.Duration("timeout", cfg.Timeout))
	return remote, nil
}
