package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Insight InsightConfig `yaml:"insight"`
	Cache   CacheConfig   `yaml:"cache"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SourceConfig struct {
	Type           string `yaml:"type"`
	BaseURL        string `yaml:"base_url"`
	ListingURL     string `yaml:"listing_url"`
	FeedURL        string `yaml:"feed_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxLetters     int    `yaml:"max_letters"`
}

type InsightConfig struct {
	Type         string `yaml:"type"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"api_key"`
	MaxTokens    int    `yaml:"max_tokens"`
	PromptBudget int    `yaml:"prompt_budget"`
	MaxRetries   int    `yaml:"max_retries"`
}

type CacheConfig struct {
	RefreshSchedule string `yaml:"refresh_schedule"`
	RefreshOnStart  bool   `yaml:"refresh_on_start"`
	HistoryLimit    int    `yaml:"history_limit"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8888"
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = "html"
	}
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = "https://www.frbsf.org"
	}
	if cfg.Source.ListingURL == "" {
		cfg.Source.ListingURL = cfg.Source.BaseURL + "/research-and-insights/publications/economic-letter/"
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 10
	}
	if cfg.Source.MaxLetters == 0 {
		cfg.Source.MaxLetters = 20
	}
	if cfg.Insight.Type == "" {
		cfg.Insight.Type = "anthropic"
	}
	if cfg.Insight.Model == "" {
		cfg.Insight.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Insight.MaxTokens == 0 {
		cfg.Insight.MaxTokens = 1024
	}
	if cfg.Insight.PromptBudget == 0 {
		cfg.Insight.PromptBudget = 24000
	}
	if cfg.Cache.HistoryLimit == 0 {
		cfg.Cache.HistoryLimit = 256
	}
}

func validate(cfg *Config) error {
	switch cfg.Source.Type {
	case "html":
	case "rss":
		if cfg.Source.FeedURL == "" {
			return fmt.Errorf("config: source.feed_url is required for rss source")
		}
	default:
		return fmt.Errorf("config: unsupported source type %q (supported: html, rss)", cfg.Source.Type)
	}
	if cfg.Insight.Type != "anthropic" {
		return fmt.Errorf("config: unsupported insight type %q (supported: anthropic)", cfg.Insight.Type)
	}
	if cfg.Insight.APIKey == "" {
		return fmt.Errorf("config: insight.api_key is required (set ANTHROPIC_API_KEY env var)")
	}
	if cfg.Insight.MaxRetries < 0 || cfg.Insight.MaxRetries > 5 {
		return fmt.Errorf("config: insight.max_retries must be between 0 and 5, got %d", cfg.Insight.MaxRetries)
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
