package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tjfontaine/marketin-sdk-go/internal/pkg/config"
	"github.com/tjfontaine/marketin-sdk-go/internal/telemetry"
	"github.com/tjfontaine/marketin-sdk-go/pkg/marketin"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// loadEnvironment reads .env and the config file and applies flag overrides.
func loadEnvironment(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if pageURL != "" {
		cfg.Page.URL = pageURL
	}
	if referrer != "" {
		cfg.Page.Referrer = referrer
	}
	if pageTitle != "" {
		cfg.Page.Title = pageTitle
	}
	if profilePath != "" {
		cfg.Storage.Type = "sqlite"
		cfg.Storage.SQLite.Path = profilePath
	}
	if debug {
		cfg.Client.Debug = true
	}
	if traceSpans {
		cfg.Telemetry.Enabled = true
	}

	level := slog.LevelInfo
	if cfg.Client.Debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func storageOption(s config.StorageConfig) (marketin.Option, error) {
	switch s.Type {
	case "", "memory":
		return marketin.WithMemoryStorage(nil), nil
	case "sqlite":
		return marketin.WithSQLite(s.SQLite.Path), nil
	case "database":
		return marketin.WithDatabase(s.Database.Driver, s.Database.DSN), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", s.Type)
	}
}

func staticPage(p config.PageConfig) marketin.StaticPage {
	return marketin.StaticPage{
		Location:      p.URL,
		ReferrerURL:   p.Referrer,
		DocumentTitle: p.Title,
		Agent:         p.UserAgent,
		Width:         p.Width,
		Height:        p.Height,
		Lang:          p.Language,
	}
}

// withClient builds a client for the configured page and storage, runs fn
// and waits for every event to be delivered. Init runs first when init is
// set, which loads the page exactly as a browser would.
func withClient(cmd *cobra.Command, init bool, fn func(ctx context.Context, c *marketin.Client) error) error {
	ctx := cmd.Context()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, os.Stderr, logger)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	store, err := storageOption(cfg.Storage)
	if err != nil {
		return err
	}

	c, err := marketin.New(
		store,
		marketin.WithPage(staticPage(cfg.Page)),
		marketin.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	if init {
		c.Init(ctx, cfg.Client)
	}
	runErr := fn(ctx, c)

	if err := c.Close(ctx); err != nil {
		return err
	}
	return runErr
}
