package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pagechat/answer"
	"pagechat/chat"
	"pagechat/config"
	"pagechat/content"
	"pagechat/database"
	"pagechat/history"
	"pagechat/logger"
	"pagechat/metrics"
	"pagechat/scraper"
	"pagechat/storage"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	engine  *answer.Engine
	session *chat.Session
	closers []func() error
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newApp(cfg)
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	kv, err := a.openStorage()
	if err != nil {
		a.Close()
		return nil, err
	}

	creds := storage.NewCredentials(kv)
	openAIKey := func() string { return firstNonEmpty(cfg.Answer.APIKey, creds.Get(storage.OpenAIKey)) }
	firecrawlKey := func() string { return firstNonEmpty(cfg.Scraper.FirecrawlKey, creds.Get(storage.FirecrawlKey)) }

	strategy, err := answer.New(cfg.Answer, answer.Keys{
		OpenAI:    openAIKey,
		Anthropic: func() string { return cfg.Answer.AnthropicKey },
	}, log, a.metrics)
	if err != nil {
		a.Close()
		return nil, err
	}

	contents := content.NewStore(kv, log)
	a.engine = answer.NewEngine(contents, strategy, log, a.metrics)
	a.session = chat.NewSession(chat.Deps{
		Scraper: scraper.New(scraper.Config{
			FirecrawlURL: cfg.Scraper.FirecrawlURL,
			Timeout:      cfg.Scraper.Timeout,
			UserAgent:    cfg.Scraper.UserAgent,
			FirecrawlKey: firecrawlKey,
		}, log, a.metrics),
		Contents:    contents,
		History:     history.NewStore(kv, log),
		Engine:      a.engine,
		Credentials: creds,
		Log:         log,
	})
	return a, nil
}

func (a *app) openStorage() (storage.Store, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		a.log.Warn("Using in-memory storage; nothing is persisted")
		return storage.NewMemoryStore(), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: a.cfg.Storage.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", a.cfg.Storage.RedisAddr, err)
		}
		a.closers = append(a.closers, client.Close)
		a.log.Info("Connected to redis", logger.String("addr", a.cfg.Storage.RedisAddr))
		return storage.NewRedisStore(client, a.cfg.Storage.RedisPrefix), nil

	default:
		db, err := database.Open(a.cfg.Storage.Path, a.log)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		return storage.NewSQLStore(db), nil
	}
}

// Close releases storage connections and flushes the logger.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	_ = a.log.Sync()
	return errors.Join(errs...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
