package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tjfontaine/marketin-sdk-go/internal/collector"
	"github.com/tjfontaine/marketin-sdk-go/internal/pkg/config"
	"github.com/tjfontaine/marketin-sdk-go/internal/server"
	"github.com/tjfontaine/marketin-sdk-go/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("MARKETIN_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName+"-collector", os.Stderr, logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	var store collector.EventStore = collector.NewMemoryStore()
	if path := cfg.Collector.Storage; path != "" {
		sqlStore, err := collector.NewSQLStore("sqlite", path)
		if err != nil {
			log.Fatalf("Failed to open event store: %v", err)
		}
		store = sqlStore
	}
	defer store.Close()

	srv := server.New(cfg.Collector.Port, "marketin-collector", logger)
	collector.NewHandler(store, logger).Routes(srv.Router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("collector stopped")
}
