package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_MODEL", "gemini-1.5-flash")
	t.Setenv("INSIGHT_DAILY_CALL_LIMIT", "7")
	t.Setenv("INSIGHT_REVIEW_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGIN", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, cfg.LLM.Provider)
	require.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	require.Equal(t, 7, cfg.Insight.DailyCallLimit)
	require.True(t, cfg.Insight.Review.Enabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 24*time.Hour, cfg.Insight.CacheTTL)
	require.Equal(t, 48*time.Hour, cfg.Insight.BudgetTTL)
	require.Equal(t, StoreMemory, cfg.Store.Backend)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o-mini
insight:
  cacheVersion: v9
  cacheTtl: 12h
store:
  backend: valkey
  valkey:
    addr: localhost:6379
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	require.Equal(t, "v9", cfg.Insight.CacheVersion)
	require.Equal(t, 12*time.Hour, cfg.Insight.CacheTTL)
	require.Equal(t, "v1", cfg.Insight.BudgetVersion)
	require.Equal(t, "localhost:6379", cfg.Store.Valkey.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "bard" }},
		{"valkey without addr", func(c *Config) { c.Store.Backend = StoreValkey }},
		{"r2 without bucket", func(c *Config) { c.Store.Backend = StoreR2; c.Store.R2.Endpoint = "https://x" }},
		{"negative limit", func(c *Config) { c.Insight.DailyCallLimit = -1 }},
		{"short budget ttl", func(c *Config) { c.Insight.BudgetTTL = time.Hour }},
		{"bad temperature", func(c *Config) { c.LLM.Temperature = 3 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, defaultConfig().Validate())
}
