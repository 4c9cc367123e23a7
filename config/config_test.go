package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ENV_FILE at an empty file so a developer's .env never leaks
// into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o644))
	t.Setenv("ENV_FILE", envFile)
	for _, k := range []string{"PORT", "PAGECHAT_STORAGE", "PAGECHAT_DB_PATH", "PAGECHAT_ANSWER_MODE", "OPENAI_API_KEY", "FIRECRAWL_API_KEY", "PAGECHAT_FALLBACK", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultDBPath(), cfg.Storage.Path)
	assert.Equal(t, ModeAuto, cfg.Answer.Mode)
	assert.Equal(t, 30*time.Second, cfg.Answer.Timeout)
	assert.Equal(t, "https://api.firecrawl.dev", cfg.Scraper.FirecrawlURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
storage:
  backend: memory
answer:
  mode: heuristic
  timeout: 5s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, ModeHeuristic, cfg.Answer.Mode)
	assert.Equal(t, 5*time.Second, cfg.Answer.Timeout)
	// untouched sections keep their defaults
	assert.Equal(t, 20*time.Second, cfg.Scraper.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PAGECHAT_ANSWER_MODE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PAGECHAT_FALLBACK", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ModeOpenAI, cfg.Answer.Mode)
	assert.Equal(t, "sk-test", cfg.Answer.APIKey)
	assert.True(t, cfg.Answer.Fallback)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvFileIsLoaded(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FIRECRAWL_API_KEY=fc-from-file\n"), 0o644))
	t.Setenv("ENV_FILE", envFile)
	// godotenv only fills variables that are unset
	require.NoError(t, os.Unsetenv("FIRECRAWL_API_KEY"))
	t.Cleanup(func() { os.Unsetenv("FIRECRAWL_API_KEY") })

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fc-from-file", cfg.Scraper.FirecrawlKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown mode", func(c *Config) { c.Answer.Mode = "magic" }, "unknown mode"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "unknown backend"},
		{"redis without addr", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisAddr = ""
		}, "redis_addr"},
		{"proxy with bad url", func(c *Config) {
			c.Answer.Mode = ModeProxy
			c.Answer.ProxyURL = "ftp://example.com"
		}, "scheme must be http or https"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			require.NoError(t, err)
			cfg.setDefaults()
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
