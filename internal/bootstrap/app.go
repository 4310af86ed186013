package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/warmup"
)

// App encapsulates the HTTP server and warm-up lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	scheduler *warmup.Scheduler
	runner    insight.Runner
}

// NewApp is used by Wire to build the runnable app. scheduler and runner may be nil.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, scheduler *warmup.Scheduler, runner insight.Runner) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, scheduler: scheduler, runner: runner}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	defer a.closeRunner()

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return err
		}
		defer func() {
			<-a.scheduler.Stop().Done()
		}()
	}

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) closeRunner() {
	closer, ok := a.runner.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		a.logger.Warn("model runner close failed", "error", err)
	}
}
