package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"teestudio/internal/gateway"
	httpapi "teestudio/internal/http"
	"teestudio/internal/http/handlers"
	"teestudio/internal/infra"
	"teestudio/internal/providers/genai"
	"teestudio/internal/store"
	"teestudio/internal/studio"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	assets, err := store.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize asset store")
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		ImageModel: cfg.ImageModel,
		TextModel:  cfg.TextModel,
		ProModel:   cfg.ProModel,
		VideoModel: cfg.VideoModel,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	gw, err := gateway.New(gateway.Options{
		Client:       client,
		PollInterval: cfg.PollInterval,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gateway")
	}

	ctx := context.Background()
	st, err := studio.New(ctx, studio.Options{
		Generator: gw,
		Repo:      db,
		Assets:    assets,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize studio")
	}

	app := handlers.NewApp(st, assets, logger)
	router := httpapi.NewRouter(app, cfg, logger)
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
