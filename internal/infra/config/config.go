package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by llm.provider.
const (
	ProviderWorkersAI = "workersai"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// Store backends accepted by store.backend.
const (
	StoreMemory = "memory"
	StoreValkey = "valkey"
	StoreR2     = "r2"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Insight InsightConfig `yaml:"insight"`
	Store   StoreConfig   `yaml:"store"`
	Archive ArchiveConfig `yaml:"archive"`
	Admin   AdminConfig   `yaml:"admin"`
	Warmup  WarmupConfig  `yaml:"warmup"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig selects and configures the model runner.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	AccountID   string        `yaml:"accountId"`
	MaxTokens   int           `yaml:"maxTokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	Encoding    string        `yaml:"encoding"`
}

// InsightConfig holds pipeline knobs.
type InsightConfig struct {
	CacheVersion   string         `yaml:"cacheVersion"`
	BudgetVersion  string         `yaml:"budgetVersion"`
	DailyCallLimit int            `yaml:"dailyCallLimit"`
	CacheTTL       time.Duration  `yaml:"cacheTtl"`
	BudgetTTL      time.Duration  `yaml:"budgetTtl"`
	Review         ReviewConfig   `yaml:"review"`
	Language       LanguageConfig `yaml:"language"`
}

// ReviewConfig toggles the reviewer pass.
type ReviewConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LanguageConfig sets acceptance thresholds for the language check.
type LanguageConfig struct {
	EnglishMinInsightHits int     `yaml:"englishMinInsightHits"`
	EnglishMinThemeRatio  float64 `yaml:"englishMinThemeRatio"`
	DefaultMinInsightHits int     `yaml:"defaultMinInsightHits"`
	DefaultMinThemeRatio  float64 `yaml:"defaultMinThemeRatio"`
}

// StoreConfig selects the KV substrate for cache and budget.
type StoreConfig struct {
	Backend string       `yaml:"backend"`
	Valkey  ValkeyConfig `yaml:"valkey"`
	R2      R2Config     `yaml:"r2"`
}

// ValkeyConfig contains connection information for Valkey.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// R2Config contains S3-compatible bucket settings.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// ArchiveConfig contains Postgres settings for insight history.
type ArchiveConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Capacity int            `yaml:"capacity"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AdminConfig protects the admin API.
type AdminConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// WarmupConfig controls the daily pre-generation job.
type WarmupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("ALLOWED_ORIGIN"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.AccountID, "LLM_ACCOUNT_ID")
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")
	setFloat(&cfg.LLM.Temperature, "LLM_TEMPERATURE")
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setString(&cfg.Insight.CacheVersion, "INSIGHT_CACHE_VERSION")
	setString(&cfg.Insight.BudgetVersion, "INSIGHT_BUDGET_VERSION")
	setInt(&cfg.Insight.DailyCallLimit, "INSIGHT_DAILY_CALL_LIMIT")
	setDuration(&cfg.Insight.CacheTTL, "INSIGHT_CACHE_TTL")
	setDuration(&cfg.Insight.BudgetTTL, "INSIGHT_BUDGET_TTL")
	setBool(&cfg.Insight.Review.Enabled, "INSIGHT_REVIEW_ENABLED")

	setString(&cfg.Store.Backend, "STORE_BACKEND")
	setString(&cfg.Store.Valkey.Addr, "VALKEY_ADDR")
	setString(&cfg.Store.Valkey.Prefix, "VALKEY_PREFIX")
	setString(&cfg.Store.R2.Endpoint, "R2_ENDPOINT")
	setString(&cfg.Store.R2.AccessKey, "R2_ACCESS_KEY")
	setString(&cfg.Store.R2.SecretKey, "R2_SECRET_KEY")
	setString(&cfg.Store.R2.Bucket, "R2_BUCKET")
	setString(&cfg.Store.R2.Region, "R2_REGION")

	setString(&cfg.Archive.Postgres.DSN, "ARCHIVE_POSTGRES_DSN")
	if v := os.Getenv("ARCHIVE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Archive.Postgres.MaxConns = int32(parsed)
		}
	}

	setString(&cfg.Admin.JWTSecret, "ADMIN_JWT_SECRET")
	setString(&cfg.Admin.Issuer, "ADMIN_JWT_ISSUER")

	setBool(&cfg.Warmup.Enabled, "WARMUP_ENABLED")
	setString(&cfg.Warmup.Schedule, "WARMUP_SCHEDULE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderWorkersAI,
			Model:       "@cf/meta/llama-3.1-8b-instruct",
			MaxTokens:   900,
			Temperature: 0.6,
			Timeout:     60 * time.Second,
		},
		Insight: InsightConfig{
			CacheVersion:   "v3",
			BudgetVersion:  "v1",
			DailyCallLimit: 20,
			CacheTTL:       24 * time.Hour,
			BudgetTTL:      48 * time.Hour,
			Language: LanguageConfig{
				EnglishMinInsightHits: 2,
				EnglishMinThemeRatio:  0.4,
				DefaultMinInsightHits: 1,
				DefaultMinThemeRatio:  0.3,
			},
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Valkey:  ValkeyConfig{Prefix: "mindelo"},
			R2:      R2Config{Region: "auto"},
		},
		Archive: ArchiveConfig{
			Postgres: PostgresConfig{MaxConns: 4},
			Capacity: 500,
		},
		Admin: AdminConfig{
			Issuer: "mindelo-insight",
		},
		Warmup: WarmupConfig{
			Schedule: "5 0 * * *",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderWorkersAI, ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderNone && strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be within [0, 2]")
	}
	if c.Insight.DailyCallLimit < 0 {
		return errors.New("insight.dailyCallLimit cannot be negative")
	}
	if c.Insight.CacheTTL <= 0 || c.Insight.BudgetTTL <= 0 {
		return errors.New("insight.cacheTtl and insight.budgetTtl must be positive")
	}
	if c.Insight.BudgetTTL < 24*time.Hour {
		return errors.New("insight.budgetTtl must cover at least one day")
	}
	if strings.TrimSpace(c.Insight.CacheVersion) == "" || strings.TrimSpace(c.Insight.BudgetVersion) == "" {
		return errors.New("insight cache and budget versions cannot be empty")
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreValkey:
		if strings.TrimSpace(c.Store.Valkey.Addr) == "" {
			return errors.New("store.valkey.addr cannot be empty when the valkey backend is selected")
		}
	case StoreR2:
		if c.Store.R2.Endpoint == "" || c.Store.R2.Bucket == "" {
			return errors.New("store.r2.endpoint and store.r2.bucket are required for the r2 backend")
		}
	default:
		return fmt.Errorf("store.backend %q is not supported", c.Store.Backend)
	}
	return nil
}
