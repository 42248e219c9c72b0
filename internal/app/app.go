package app

import (
	"context"
	"log/slog"
	"net/http"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/infrastructure/parser"
	"BoxOfficeETL/internal/infrastructure/storage"
	"BoxOfficeETL/internal/infrastructure/tmdb"
	"BoxOfficeETL/internal/logging"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/scanner"
	"BoxOfficeETL/internal/usecase"
)

// Application wires configs to the pipeline stages.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	httpClient := &http.Client{Timeout: cfg.Collector.Timeout}
	registry := scanner.NewRegistry()
	registry.Register(parser.NewWeekendScanner(httpClient, cfg.Collector.UserAgent, baseLogger.With("component", "scanner.weekend")))

	source := parser.NewStrategySource(registry, cfg.Collector, baseLogger.With("component", "source"))

	var lookup ports.MovieLookup
	if cfg.Enricher.APIKey != "" {
		lookup = tmdb.NewClient(cfg.Enricher)
	}

	dbCfg := cfg.Database
	connect := func(ctx context.Context) (ports.TableStore, error) {
		store, err := storage.Open(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Collector:    usecase.NewCollector(source, cfg.Collector.Sources, baseLogger.With("component", "collector")),
		Cleaner:      usecase.NewListingCleaner(cfg.Cleaner, baseLogger.With("component", "cleaner")),
		Enricher:     usecase.NewEnricher(lookup, cfg.Enricher.Delay, baseLogger.With("component", "enricher")),
		MovieCleaner: usecase.NewMovieCleaner(cfg.Refiner, baseLogger.With("component", "refiner")),
		Loader:       usecase.NewLoader(connect, cfg.Loader.Tables, baseLogger.With("component", "loader")),
		Logger:       baseLogger.With("component", "pipeline"),
		EnrichInputs: cfg.Enricher.Inputs,
		TitleColumn:  cfg.Enricher.TitleColumn,
		EnrichOutput: cfg.Enricher.Output,
	})
	return &Application{cfg: cfg, pipeline: pipeline}
}

// Collect runs the scraping stage.
func (a *Application) Collect(ctx context.Context) error { return a.pipeline.Collect(ctx) }

// CleanListings runs the listing cleaner stage.
func (a *Application) CleanListings(ctx context.Context) error { return a.pipeline.CleanListings(ctx) }

// Enrich runs the metadata enrichment stage.
func (a *Application) Enrich(ctx context.Context) error { return a.pipeline.Enrich(ctx) }

// CleanMovies runs the record cleaner stage.
func (a *Application) CleanMovies(ctx context.Context) error { return a.pipeline.CleanMovies(ctx) }

// Load runs the database loading stage.
func (a *Application) Load(ctx context.Context) error { return a.pipeline.Load(ctx) }

// Run performs every stage once, in order.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.RunAll(ctx)
}
