package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"clipforge/internal/domain/tuning"
	"clipforge/internal/http/handlers"
	"clipforge/internal/http/httpapi"
	"clipforge/internal/infra"
	"clipforge/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	tune, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load tuning config")
	}

	pipe, err := pipeline.FromConfig(cfg, tune, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	app := handlers.NewApp(pipe, logger)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
