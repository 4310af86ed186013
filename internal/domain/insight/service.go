package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
	"github.com/1990jr/mindelo-lausanne-time-bridge/pkg/metrics"
	"github.com/1990jr/mindelo-lausanne-time-bridge/pkg/util"
)

const (
	dayLayout           = "2006-01-02"
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// Service exposes the daily insight pipeline.
type Service interface {
	Insight(ctx context.Context, req Request) (Response, error)
	Budget(ctx context.Context) (BudgetStatus, error)
	History(ctx context.Context, lang string, limit int) ([]ArchiveEntry, error)
	Purge(ctx context.Context, day, lang string) error
}

// Archive keeps every final document for later inspection.
type Archive interface {
	Append(ctx context.Context, entry ArchiveEntry) error
	Recent(ctx context.Context, lang string, limit int) ([]ArchiveEntry, error)
}

// TokenEstimator approximates the token count of a prompt or completion.
type TokenEstimator interface {
	Count(text string) int
}

type service struct {
	cfg     Config
	cache   *ResponseCache
	ledger  *BudgetLedger
	runner  Runner
	archive Archive
	tokens  TokenEstimator
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the pipeline. runner may be nil, in which case Insight
// reports runner_unavailable. archive and tokens are optional.
func NewService(cfg Config, store KVStore, runner Runner, archive Archive, tokens TokenEstimator, logger *slog.Logger) Service {
	cfg = cfg.withDefaults()
	return &service{
		cfg:     cfg,
		cache:   NewResponseCache(store, cfg.CacheVersion, cfg.CacheTTL),
		ledger:  NewBudgetLedger(store, cfg.BudgetVersion, cfg.BudgetTTL),
		runner:  runner,
		archive: archive,
		tokens:  tokens,
		logger:  logger.With("component", "insight.service"),
		now:     util.NowUTC,
	}
}

func (s *service) today() string {
	return s.now().UTC().Format(dayLayout)
}

func (s *service) Insight(ctx context.Context, req Request) (Response, error) {
	if s.runner == nil {
		return Response{}, apperrors.Wrap("runner_unavailable", "model runner is not configured", nil)
	}

	day := s.today()
	lang := NormalizeLanguage(req.Lang)
	logger := s.logger.With("day", day, "lang", lang)

	cached, hit, err := s.cache.Get(ctx, day, lang)
	if err != nil {
		logger.Warn("insight cache read failed", "error", err)
	}
	if hit {
		logger.Debug("insight cache hit", "mode", cached.Mode)
		cached.Cached = true
		return cached, nil
	}

	facts := PickDailyFacts(day, lang)

	budget, err := s.ledger.Read(ctx, day)
	if err != nil {
		logger.Warn("budget read failed", "error", err)
	}
	if budget.Used >= s.cfg.DailyCallLimit {
		logger.Info("daily call budget reached", "used", budget.Used, "limit", s.cfg.DailyCallLimit)
		content := BuildSafeFallbackPayload(lang, facts)
		return s.finish(ctx, logger, day, lang, content, ModeFallbackDailyLimit, budget.Used, nil), nil
	}

	guard := &guardedRunner{
		inner:  s.runner,
		ledger: s.ledger,
		day:    day,
		limit:  s.cfg.DailyCallLimit,
		logger: logger,
		used:   budget.Used,
	}
	usage := &metrics.TokenUsage{}
	content, mode := s.generate(ctx, logger, guard, req, lang, facts, usage)
	if mode.isFallback() {
		content = BuildSafeFallbackPayload(lang, facts)
	}
	return s.finish(ctx, logger, day, lang, content, mode, guard.used, usage), nil
}

func (m Mode) isFallback() bool {
	switch m {
	case ModeGenerated, ModeGeneratedReviewed, ModeGeneratedRevised:
		return false
	default:
		return true
	}
}

func (s *service) generate(ctx context.Context, logger *slog.Logger, runner Runner, req Request, lang string, facts DailyFacts, usage *metrics.TokenUsage) (DailyContent, Mode) {
	prompt := buildGeneratorPrompt(req.Context, lang, facts)
	candidate, mode := s.attempt(ctx, logger, runner, prompt, lang, facts, usage)
	if mode != ModeGenerated || !s.cfg.ReviewEnabled {
		return candidate, mode
	}

	reviewPrompt := buildReviewerPrompt(candidate, lang, facts)
	envelope, err := s.call(ctx, runner, reviewPrompt)
	if err != nil {
		logger.Warn("review call failed, keeping candidate", "error", err)
		return candidate, ModeGenerated
	}
	text := ExtractText(envelope)
	s.recordUsage(usage, envelope, reviewPrompt, text)
	verdict, ok := NormalizeReviewPayload(ExtractStructuredPayload(text))
	if !ok {
		logger.Warn("review payload unusable, keeping candidate")
		return candidate, ModeGenerated
	}
	if verdict.Approved {
		return candidate, ModeGeneratedReviewed
	}

	logger.Info("candidate rejected by reviewer", "issues", verdict.Issues, "reason", verdict.Reason)
	revised, mode := s.attempt(ctx, logger, runner, buildRevisionPrompt(candidate, verdict, lang, facts), lang, facts, usage)
	if mode != ModeGenerated {
		return DailyContent{}, ModeFallbackReviewRejected
	}
	return revised, ModeGeneratedRevised
}

// attempt runs one generation prompt and applies every gate to its output.
func (s *service) attempt(ctx context.Context, logger *slog.Logger, runner Runner, prompt, lang string, facts DailyFacts, usage *metrics.TokenUsage) (DailyContent, Mode) {
	envelope, err := s.call(ctx, runner, prompt)
	if errors.Is(err, ErrBudgetExhausted) {
		logger.Info("budget slot unavailable at call time")
		return DailyContent{}, ModeFallbackDailyLimit
	}
	if err != nil {
		logger.Warn("generation failed", "error", err)
		return DailyContent{}, ModeFallbackInvalid
	}

	text := ExtractText(envelope)
	s.recordUsage(usage, envelope, prompt, text)
	content, ok := NormalizeDailyPayload(ExtractStructuredPayload(text))
	if !ok {
		logger.Warn("generator returned an invalid payload", "chars", len(text))
		return DailyContent{}, ModeFallbackInvalid
	}
	if !IsGroundedInFacts(content, facts) {
		logger.Warn("generated facts differ from the daily facts")
		return DailyContent{}, ModeFallbackGrounded
	}
	if !s.cfg.Language.Accepts(content, lang) {
		logger.Warn("generated content is not in the expected language")
		return DailyContent{}, ModeFallbackGrounded
	}
	return content, ModeGenerated
}

// call invokes the runner and turns a panic inside a backend into an error.
func (s *service) call(ctx context.Context, runner Runner, prompt string) (envelope any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("runner panic: %v", r)
		}
	}()
	return runner.Run(ctx, s.cfg.Model, RunInput{
		Prompt:      prompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
}

// recordUsage prefers the counts the provider reported and estimates
// locally otherwise.
func (s *service) recordUsage(usage *metrics.TokenUsage, envelope any, prompt, completion string) {
	if usage == nil {
		return
	}
	if reported, ok := ExtractUsage(envelope); ok {
		usage.PromptTokens += reported.PromptTokens
		usage.CompletionTokens += reported.CompletionTokens
	} else if s.tokens != nil {
		usage.PromptTokens += s.tokens.Count(prompt)
		usage.CompletionTokens += s.tokens.Count(completion)
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
}

func (s *service) finish(ctx context.Context, logger *slog.Logger, day, lang string, content DailyContent, mode Mode, used int, usage *metrics.TokenUsage) Response {
	resp := Response{
		DailyContent:     content,
		Model:            s.cfg.Model,
		Cached:           false,
		Day:              day,
		Mode:             mode,
		AICallsUsedToday: used,
	}
	if usage != nil && !usage.IsZero() {
		resp.TokenUsage = usage
	}

	if err := s.cache.Put(ctx, day, lang, resp); err != nil {
		logger.Warn("insight cache write failed", "error", err)
	}
	if s.archive != nil {
		entry := ArchiveEntry{
			Day:       day,
			Lang:      lang,
			Mode:      mode,
			Model:     s.cfg.Model,
			Content:   content,
			CreatedAt: s.now().UTC(),
		}
		if err := s.archive.Append(ctx, entry); err != nil {
			logger.Warn("insight archive append failed", "error", err)
		}
	}
	logger.Info("insight produced", "mode", mode, "ai_calls_used", used)
	return resp
}

func (s *service) Budget(ctx context.Context) (BudgetStatus, error) {
	day := s.today()
	record, err := s.ledger.Read(ctx, day)
	if err != nil {
		return BudgetStatus{}, apperrors.Wrap("insight_error", "failed to read budget", err)
	}
	return BudgetStatus{
		Day:       day,
		Used:      record.Used,
		Limit:     s.cfg.DailyCallLimit,
		Remaining: max(0, s.cfg.DailyCallLimit-record.Used),
	}, nil
}

func (s *service) History(ctx context.Context, lang string, limit int) ([]ArchiveEntry, error) {
	if lang != "" {
		lang = NormalizeLanguage(lang)
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	if s.archive == nil {
		return []ArchiveEntry{}, nil
	}
	entries, err := s.archive.Recent(ctx, lang, limit)
	if err != nil {
		return nil, apperrors.Wrap("insight_error", "failed to load history", err)
	}
	return entries, nil
}

func (s *service) Purge(ctx context.Context, day, lang string) error {
	if _, err := time.Parse(dayLayout, day); err != nil {
		return apperrors.Wrap("invalid_input", "day must be formatted as YYYY-MM-DD", err)
	}
	if !slices.Contains(SupportedLanguages, lang) {
		return apperrors.Wrap("invalid_input", fmt.Sprintf("unsupported language %q", lang), nil)
	}
	if err := s.cache.Delete(ctx, day, lang); err != nil {
		return apperrors.Wrap("insight_error", "failed to purge cached insight", err)
	}
	s.logger.Info("insight cache purged", "day", day, "lang", lang)
	return nil
}
