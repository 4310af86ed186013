package warmup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

// DefaultSchedule runs shortly after the UTC day rolls over.
const DefaultSchedule = "5 0 * * *"

const jobTimeout = 5 * time.Minute

type insightGenerator interface {
	Insight(ctx context.Context, req insight.Request) (insight.Response, error)
}

// Scheduler produces the day's document for every language so the first
// visitor of the day is served from cache.
type Scheduler struct {
	cron      *cron.Cron
	svc       insightGenerator
	languages []string
	schedule  string
	logger    *slog.Logger
}

// NewScheduler constructs a scheduler running in UTC.
func NewScheduler(svc insightGenerator, schedule string, languages []string, logger *slog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if len(languages) == 0 {
		languages = insight.SupportedLanguages
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		svc:       svc,
		languages: languages,
		schedule:  schedule,
		logger:    logger.With("component", "warmup.scheduler"),
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		start := time.Now()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("warm-up failed", "error", err)
			return
		}
		s.logger.Info("warm-up completed", "latency_ms", time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("schedule warm-up %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("warm-up scheduled", "schedule", s.schedule, "languages", s.languages)
	return nil
}

// Stop halts the cron loop and returns a context done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce generates every language concurrently.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, lang := range s.languages {
		g.Go(func() error {
			resp, err := s.svc.Insight(ctx, insight.Request{Lang: lang})
			if err != nil {
				return fmt.Errorf("warm %s: %w", lang, err)
			}
			s.logger.Info("language warmed", "lang", lang, "mode", resp.Mode, "cached", resp.Cached)
			return nil
		})
	}
	return g.Wait()
}
