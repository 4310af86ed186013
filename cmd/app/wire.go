//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/bootstrap"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
	httpiface "github.com/1990jr/mindelo-lausanne-time-bridge/internal/interface/http"
	"github.com/1990jr/mindelo-lausanne-time-bridge/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideInsightConfig,
		provideKVStore,
		provideRunner,
		provideArchive,
		provideTokenEstimator,
		provideAuthenticator,
		provideHandlerInfo,
		provideScheduler,
		insight.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
