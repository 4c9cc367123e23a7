package answer

import (
	"context"

	"pagechat/logger"
	"pagechat/models"
)

// FallbackStrategy answers with Secondary whenever Primary fails.
type FallbackStrategy struct {
	Primary   Strategy
	Secondary Strategy
	log       logger.Logger
}

func NewFallbackStrategy(primary, secondary Strategy, log logger.Logger) *FallbackStrategy {
	return &FallbackStrategy{Primary: primary, Secondary: secondary, log: log}
}

func (f *FallbackStrategy) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *FallbackStrategy) Answer(ctx context.Context, message string, entries []models.ContextEntry) (string, error) {
	text, err := f.Primary.Answer(ctx, message, entries)
	if err == nil {
		return text, nil
	}
	f.log.Warn("Remote answer failed, using fallback",
		logger.String("primary", f.Primary.Name()),
		logger.String("fallback", f.Secondary.Name()),
		logger.Error(err))
	return f.Secondary.Answer(ctx, message, entries)
}
