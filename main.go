package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardiodash/adapters/source"
	"cardiodash/app"
	"cardiodash/internal"
	"cardiodash/internal/config"
	"cardiodash/internal/ingest"
	"cardiodash/internal/metrics"
	"cardiodash/internal/store"
	"cardiodash/ports"
	"cardiodash/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewEnvLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.Env)
	defer logger.Sync()

	collector := metrics.NewCollector("cardiodash")
	catalog := source.DefaultCatalog()

	fetcher, err := newFetcher(appConfig.Data, catalog, logger, collector)
	if err != nil {
		log.Fatalf("Failed to configure data source: %v", err)
	}

	service := app.NewDashboardService(
		store.New(logger),
		fetcher,
		catalog,
		ingest.NewProcessor(logger),
		logger,
		collector,
		app.DashboardConfig{MaxUploadBytes: appConfig.Server.MaxUploadBytes},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.Data.PreloadSources {
		if err := service.PreloadCatalog(ctx); err != nil {
			logger.Warn("Preload incomplete: %v", err)
		}
	}
	if _, err := service.SelectSource(ctx, appConfig.Data.DefaultSource); err != nil {
		logger.Warn("Default source %s not loaded: %v", appConfig.Data.DefaultSource, err)
	}

	server := ui.NewServer(service, collector, logger, appConfig.Server)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed: %v", err)
		}
	}
}

// newFetcher reads sources over HTTP when DATA_BASE_URL is set, else from DATA_DIR
func newFetcher(cfg config.DataConfig, catalog *source.Catalog, logger *internal.Logger, collector *metrics.Collector) (ports.SourceFetcher, error) {
	if cfg.BaseURL == "" {
		logger.Info("Reading sources from %s", cfg.Dir)
		return source.NewDirFetcher(cfg.Dir, catalog, collector), nil
	}
	httpConfig := source.DefaultHTTPConfig(cfg.BaseURL)
	httpConfig.Timeout = cfg.FetchTimeout
	logger.Info("Fetching sources from %s", cfg.BaseURL)
	return source.NewHTTPFetcher(httpConfig, catalog, logger, collector)
}
