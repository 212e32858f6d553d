package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/logging"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/summarizer"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/transcript"
)

// appConfig is the full service configuration, loadable from a YAML
// file with environment variable overrides on top.
type appConfig struct {
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	RateLimit struct {
		RequestsPerMinute     int `yaml:"requests_per_minute"`
		RequestsPerHour       int `yaml:"requests_per_hour"`
		MaxConcurrentPlatform int `yaml:"max_concurrent_platform"`
		CooldownSeconds       int `yaml:"cooldown_seconds"`
		BlockDurationSeconds  int `yaml:"block_duration_seconds"`
	} `yaml:"rate_limit"`

	Cache struct {
		Dir      string `yaml:"dir"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"cache"`

	Transcript struct {
		BaseURL       string        `yaml:"base_url"`
		Language      string        `yaml:"language"`
		Timeout       time.Duration `yaml:"timeout"`
		ProxyUsername string        `yaml:"proxy_username"`
		ProxyPassword string        `yaml:"proxy_password"`
	} `yaml:"transcript"`

	Summarizer struct {
		BaseURL     string        `yaml:"base_url"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float64       `yaml:"temperature"`
		TopP        float64       `yaml:"top_p"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"summarizer"`

	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

// defaultAppConfig returns the built-in defaults.
func defaultAppConfig() appConfig {
	var cfg appConfig

	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second

	rl := ratelimit.DefaultConfig()
	cfg.RateLimit.RequestsPerMinute = rl.RequestsPerMinute
	cfg.RateLimit.RequestsPerHour = rl.RequestsPerHour
	cfg.RateLimit.MaxConcurrentPlatform = rl.MaxConcurrentPlatform
	cfg.RateLimit.CooldownSeconds = rl.CooldownSeconds
	cfg.RateLimit.BlockDurationSeconds = rl.BlockDurationSeconds

	cc := cache.DefaultConfig()
	cfg.Cache.Dir = cc.Dir
	cfg.Cache.TTLHours = int(cc.TTL / time.Hour)

	tc := transcript.DefaultConfig()
	cfg.Transcript.BaseURL = tc.BaseURL
	cfg.Transcript.Language = tc.Language
	cfg.Transcript.Timeout = tc.Timeout

	sc := summarizer.DefaultConfig()
	cfg.Summarizer.BaseURL = sc.BaseURL
	cfg.Summarizer.Model = sc.Model
	cfg.Summarizer.MaxTokens = sc.MaxTokens
	cfg.Summarizer.Temperature = sc.Temperature
	cfg.Summarizer.TopP = sc.TopP
	cfg.Summarizer.Timeout = sc.Timeout

	cfg.Logging.Level = string(logging.DefaultConfig().Level)
	cfg.Logging.Pretty = false

	return cfg
}

// loadConfig builds the configuration from defaults, an optional YAML
// file, and environment variables (highest priority).
func loadConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *appConfig) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Cache.Dir = getEnv("CACHE_DIR", cfg.Cache.Dir)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	cfg.Transcript.BaseURL = getEnv("TRANSCRIPT_API_URL", cfg.Transcript.BaseURL)
	cfg.Transcript.ProxyUsername = getEnv("YOUTUBE_PROXY_USERNAME", cfg.Transcript.ProxyUsername)
	cfg.Transcript.ProxyPassword = getEnv("YOUTUBE_PROXY_PASSWORD", cfg.Transcript.ProxyPassword)

	cfg.Summarizer.BaseURL = getEnv("SUMMARIZER_API_URL", cfg.Summarizer.BaseURL)
	cfg.Summarizer.APIKey = getEnv("FIREWORKS_API_KEY", cfg.Summarizer.APIKey)
	cfg.Summarizer.Model = getEnv("SUMMARIZER_MODEL", cfg.Summarizer.Model)

	if v := os.Getenv("REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("REQUESTS_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.RequestsPerHour = n
		}
	}
	if v := os.Getenv("MAX_CONCURRENT_PLATFORM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.MaxConcurrentPlatform = n
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// rateLimitConfig converts the app section into the limiter config.
func (c appConfig) rateLimitConfig() ratelimit.Config {
	return ratelimit.Config{
		RequestsPerMinute:     c.RateLimit.RequestsPerMinute,
		RequestsPerHour:       c.RateLimit.RequestsPerHour,
		MaxConcurrentPlatform: c.RateLimit.MaxConcurrentPlatform,
		CooldownSeconds:       c.RateLimit.CooldownSeconds,
		BlockDurationSeconds:  c.RateLimit.BlockDurationSeconds,
	}
}

func (c appConfig) cacheConfig() cache.Config {
	return cache.Config{
		Dir: c.Cache.Dir,
		TTL: time.Duration(c.Cache.TTLHours) * time.Hour,
	}
}

func (c appConfig) transcriptConfig() transcript.Config {
	return transcript.Config{
		BaseURL:       c.Transcript.BaseURL,
		Language:      c.Transcript.Language,
		Timeout:       c.Transcript.Timeout,
		ProxyUsername: c.Transcript.ProxyUsername,
		ProxyPassword: c.Transcript.ProxyPassword,
		Retry:         transcript.DefaultRetryConfig(),
	}
}

func (c appConfig) summarizerConfig() summarizer.Config {
	return summarizer.Config{
		BaseURL:     c.Summarizer.BaseURL,
		APIKey:      c.Summarizer.APIKey,
		Model:       c.Summarizer.Model,
		MaxTokens:   c.Summarizer.MaxTokens,
		Temperature: c.Summarizer.Temperature,
		TopP:        c.Summarizer.TopP,
		Timeout:     c.Summarizer.Timeout,
	}
}

func (c appConfig) loggingConfig() logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(c.Logging.Level),
		Pretty: c.Logging.Pretty,
		Output: os.Stderr,
	}
}
