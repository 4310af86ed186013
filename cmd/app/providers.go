package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/archive"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/kvstore"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/chatgpt"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/gemini"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/workersai"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/runner"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/tokens"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/warmup"
	httpiface "github.com/1990jr/mindelo-lausanne-time-bridge/internal/interface/http"
)

func provideInsightConfig(cfg *config.Config) insight.Config {
	out := insight.Config{
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		DailyCallLimit: cfg.Insight.DailyCallLimit,
		CacheVersion:   cfg.Insight.CacheVersion,
		BudgetVersion:  cfg.Insight.BudgetVersion,
		CacheTTL:       cfg.Insight.CacheTTL,
		BudgetTTL:      cfg.Insight.BudgetTTL,
		ReviewEnabled:  cfg.Insight.Review.Enabled,
		Language:       insight.DefaultLanguagePolicy(),
	}

	lang := cfg.Insight.Language
	english := out.Language.Thresholds[insight.DefaultLanguage]
	if lang.EnglishMinInsightHits > 0 {
		english.MinInsightHits = lang.EnglishMinInsightHits
	}
	if lang.EnglishMinThemeRatio > 0 {
		english.MinThemeRatio = lang.EnglishMinThemeRatio
	}
	out.Language.Thresholds[insight.DefaultLanguage] = english
	if lang.DefaultMinInsightHits > 0 {
		out.Language.Default.MinInsightHits = lang.DefaultMinInsightHits
	}
	if lang.DefaultMinThemeRatio > 0 {
		out.Language.Default.MinThemeRatio = lang.DefaultMinThemeRatio
	}
	return out
}

// provideKVStore picks the cache and budget substrate, degrading to memory
// when the configured backend cannot be reached.
func provideKVStore(cfg *config.Config, logger *slog.Logger) insight.KVStore {
	switch cfg.Store.Backend {
	case config.StoreValkey:
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return kvstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return kvstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return kvstore.NewMemoryStore()
		}
		logger.Info("valkey store enabled", "addr", cfg.Store.Valkey.Addr)
		return kvstore.NewValkeyStore(client, cfg.Store.Valkey.Prefix)
	case config.StoreR2:
		r2 := cfg.Store.R2
		store, err := kvstore.NewObjectStore(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, logger)
		if err != nil {
			logger.Error("failed to create object store, falling back to memory store", "error", err)
			return kvstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Error("object store bucket unavailable, falling back to memory store", "error", err)
			return kvstore.NewMemoryStore()
		}
		logger.Info("object store enabled", "bucket", r2.Bucket)
		return store
	default:
		logger.Info("using in-memory store")
		return kvstore.NewMemoryStore()
	}
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Store.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Store.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Store.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideRunner returns nil when no provider is usable; the service then
// answers every insight request with runner_unavailable.
func provideRunner(cfg *config.Config, logger *slog.Logger) insight.Runner {
	llm := cfg.LLM
	switch llm.Provider {
	case config.ProviderWorkersAI:
		client, err := workersai.NewClient(llm.AccountID, llm.APIKey, llm.BaseURL, llm.Timeout)
		if err != nil {
			logger.Warn("workers ai runner unavailable", "error", err)
			return nil
		}
		return runner.NewWorkersAI(client)
	case config.ProviderOpenAI:
		client, err := chatgpt.NewClient(llm.APIKey, llm.BaseURL, llm.Timeout)
		if err != nil {
			logger.Warn("openai runner unavailable", "error", err)
			return nil
		}
		return runner.NewChatGPT(client)
	case config.ProviderGemini:
		client, err := gemini.NewClient(context.Background(), llm.APIKey)
		if err != nil {
			logger.Warn("gemini runner unavailable", "error", err)
			return nil
		}
		return runner.NewGemini(client)
	default:
		logger.Warn("no model provider configured", "provider", llm.Provider)
		return nil
	}
}

func provideArchive(cfg *config.Config, logger *slog.Logger) insight.Archive {
	fallback := archive.NewMemoryArchive(cfg.Archive.Capacity)
	dsn := strings.TrimSpace(cfg.Archive.Postgres.DSN)
	if dsn == "" {
		logger.Info("archive postgres dsn not set, using memory archive")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory archive", "error", err)
		return fallback
	}
	if cfg.Archive.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Archive.Postgres.MaxConns
	}
	if cfg.Archive.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Archive.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory archive", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory archive", "error", err)
		pool.Close()
		return fallback
	}
	pg := archive.NewPostgresArchive(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("archive schema setup failed, using memory archive", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("archive postgres repository enabled")
	return pg
}

func provideTokenEstimator(cfg *config.Config, logger *slog.Logger) insight.TokenEstimator {
	return tokens.NewEstimator(cfg.LLM.Encoding, logger)
}

func provideAuthenticator(cfg *config.Config) admin.Authenticator {
	return admin.NewAuthenticator(admin.Config{Secret: cfg.Admin.JWTSecret, Issuer: cfg.Admin.Issuer})
}

func provideHandlerInfo(cfg *config.Config) httpiface.HandlerInfo {
	return httpiface.HandlerInfo{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		Store:         cfg.Store.Backend,
		ReviewEnabled: cfg.Insight.Review.Enabled,
		CacheTTL:      cfg.Insight.CacheTTL,
	}
}

// provideScheduler returns nil when warm-up is disabled.
func provideScheduler(cfg *config.Config, svc insight.Service, logger *slog.Logger) *warmup.Scheduler {
	if !cfg.Warmup.Enabled {
		return nil
	}
	return warmup.NewScheduler(svc, cfg.Warmup.Schedule, nil, logger)
}
