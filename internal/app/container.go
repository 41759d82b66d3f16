package app

import (
	"context"
	"fmt"
	"log/slog"

	"kartlap/internal/config"
	"kartlap/internal/files"
	"kartlap/internal/infrastructure"
	"kartlap/internal/scraper"
	"kartlap/internal/services"
	"kartlap/internal/storage"
	"kartlap/pkg/postgres"
)

// Container holds the pieces shared by the server and the CLI: resolved
// paths, telemetry, the heat repository and the page fetcher.
type Container struct {
	Config     *config.Config
	Paths      *config.Paths
	Logger     *slog.Logger
	Providers  *infrastructure.OTelProviders
	Metrics    *infrastructure.HeatMetrics
	Repository services.HeatRepository
	Fetcher    services.Fetcher

	db     *postgres.DB
	closed bool
}

// Option customizes a Container.
type Option func(*Container)

// WithFetcher replaces the fetcher selected by the scraper config.
func WithFetcher(f services.Fetcher) Option {
	return func(c *Container) { c.Fetcher = f }
}

// WithRepository replaces the repository selected by the storage config.
func WithRepository(r services.HeatRepository) Option {
	return func(c *Container) { c.Repository = r }
}

// NewContainer wires telemetry, storage and scraping from cfg. The caller
// must Close it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)
	c.Paths = paths

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	c.Providers = providers

	metrics, err := infrastructure.CreateHeatMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Heat metrics disabled", slog.String("error", err.Error()))
	}
	c.Metrics = metrics

	if c.Repository == nil {
		if err := c.openRepository(ctx); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
	}

	if c.Fetcher == nil {
		fetcher, err := scraper.NewFetcher(cfg.Scraper, logger)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		c.Fetcher = fetcher
	}

	logger.Info("Container ready",
		slog.String("storage", cfg.Storage.Driver),
		slog.String("scraper_mode", cfg.Scraper.Mode),
		slog.String("base_url", cfg.Scraper.BaseURL))
	return c, nil
}

func (c *Container) openRepository(ctx context.Context) error {
	switch c.Config.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := postgres.New(ctx, c.Config.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := storage.NewPostgresHeatRepository(db.Pool, c.Logger)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to migrate heat schema: %w", err)
		}
		c.db = db
		c.Repository = repo
	default:
		c.Repository = files.NewHeatStore(c.Paths, c.Logger)
	}
	return nil
}

// HeatService builds a heat service over the container. events may be nil.
func (c *Container) HeatService(events services.EventBroadcaster) *services.HeatService {
	return services.NewHeatService(services.HeatServiceDeps{
		Fetcher:      c.Fetcher,
		Repository:   c.Repository,
		Events:       events,
		Metrics:      c.Metrics,
		Tracer:       c.Providers.Tracer,
		BatchWorkers: c.Config.Scraper.BatchWorkers,
		Logger:       c.Logger,
	})
}

// Close releases the database pool and flushes telemetry.
func (c *Container) Close(ctx context.Context) error {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	if c.Providers != nil && !c.closed {
		c.closed = true
		if err := c.Providers.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down telemetry: %w", err)
		}
	}
	return nil
}
