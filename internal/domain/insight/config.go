package insight

import "time"

// Config holds runtime knobs for the insight service.
type Config struct {
	Model          string
	MaxTokens      int
	Temperature    float64
	DailyCallLimit int
	CacheVersion   string
	BudgetVersion  string
	CacheTTL       time.Duration
	BudgetTTL      time.Duration
	ReviewEnabled  bool
	Language       LanguagePolicy
}

// DefaultConfig mirrors the values used by the deployed worker.
func DefaultConfig() Config {
	return Config{
		Model:          "@cf/meta/llama-3.1-8b-instruct",
		MaxTokens:      900,
		Temperature:    0.6,
		DailyCallLimit: 20,
		CacheVersion:   "v3",
		BudgetVersion:  "v1",
		CacheTTL:       24 * time.Hour,
		BudgetTTL:      48 * time.Hour,
		Language:       DefaultLanguagePolicy(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	if c.Temperature < 0 {
		c.Temperature = def.Temperature
	}
	if c.DailyCallLimit < 0 {
		c.DailyCallLimit = 0
	}
	if c.CacheVersion == "" {
		c.CacheVersion = def.CacheVersion
	}
	if c.BudgetVersion == "" {
		c.BudgetVersion = def.BudgetVersion
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.BudgetTTL <= 0 {
		c.BudgetTTL = def.BudgetTTL
	}
	if len(c.Language.Markers) == 0 {
		c.Language = def.Language
	}
	return c
}
