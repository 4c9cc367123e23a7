// Package config loads pagechat configuration from YAML with environment
// variable overrides.
//
// Environment values come from the process and from .env files. ENV_FILE,
// when set, names the only file loaded; otherwise .env.local is loaded first
// and then .env, so values in .env.local win.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pagechat/logger"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Answer modes.
const (
	ModeAuto      = "auto"
	ModeOpenAI    = "openai"
	ModeAnthropic = "anthropic"
	ModeProxy     = "proxy"
	ModeHeuristic = "heuristic"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type ServerConfig struct {
	Port        int           `yaml:"port" env:"PORT"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend" env:"PAGECHAT_STORAGE"`
	Path        string `yaml:"path" env:"PAGECHAT_DB_PATH"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type AnswerConfig struct {
	Mode         string        `yaml:"mode" env:"PAGECHAT_ANSWER_MODE"`
	Model        string        `yaml:"model" env:"PAGECHAT_MODEL"`
	APIKey       string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL      string        `yaml:"base_url" env:"OPENAI_BASE_URL"`
	AnthropicKey string        `yaml:"anthropic_key" env:"ANTHROPIC_API_KEY"`
	ProxyURL     string        `yaml:"proxy_url" env:"PAGECHAT_PROXY_URL"`
	Timeout      time.Duration `yaml:"timeout"`
	Fallback     bool          `yaml:"fallback" env:"PAGECHAT_FALLBACK"`
}

type ScraperConfig struct {
	FirecrawlURL string        `yaml:"firecrawl_url"`
	FirecrawlKey string        `yaml:"firecrawl_key" env:"FIRECRAWL_API_KEY"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Answer  AnswerConfig  `yaml:"answer"`
	Scraper ScraperConfig `yaml:"scraper"`
	Log     logger.Config `yaml:"log"`
}

// DefaultConfigPath is the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pagechat", "config.yaml")
}

// DefaultDBPath is the sqlite file used when storage.path is empty.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "pagechat", "pagechat.db")
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path on top of the embedded defaults, then applies
// environment overrides and validates the result. A missing file is not an
// error; the defaults are used.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	// godotenv.Load never overrides a variable that is already set, so the
	// first file loaded wins.
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Path == "" {
		c.Storage.Path = DefaultDBPath()
	}
	if c.Answer.Mode == "" {
		c.Answer.Mode = ModeAuto
	}
	if c.Answer.Timeout <= 0 {
		c.Answer.Timeout = 30 * time.Second
	}
	if c.Scraper.Timeout <= 0 {
		c.Scraper.Timeout = 20 * time.Second
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Answer.Mode {
	case ModeAuto, ModeOpenAI, ModeAnthropic, ModeProxy, ModeHeuristic:
	default:
		return fmt.Errorf("answer.mode: unknown mode %q (valid: auto, openai, anthropic, proxy, heuristic)", c.Answer.Mode)
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (valid: sqlite, redis, memory)", c.Storage.Backend)
	}
	if c.Answer.Mode == ModeProxy {
		if err := validateHTTPURL("answer.proxy_url", c.Answer.ProxyURL); err != nil {
			return err
		}
	}
	if c.Scraper.FirecrawlURL != "" {
		if err := validateHTTPURL("scraper.firecrawl_url", c.Scraper.FirecrawlURL); err != nil {
			return err
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
	}
	return nil
}

// applyEnvOverrides sets every field carrying an `env` tag whose variable is
// non-empty.
func applyEnvOverrides(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	applyEnvToStruct(v)
}

func applyEnvToStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			applyEnvToStruct(field)
			continue
		}
		envTag := t.Field(i).Tag.Get("env")
		if envTag == "" {
			continue
		}
		if val := os.Getenv(envTag); val != "" {
			setFieldFromString(field, val)
		}
	}
}

func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			field.SetBool(b)
		}
	}
}
