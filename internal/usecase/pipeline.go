package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// PipelineDeps wires the five stages into the orchestration pipeline.
type PipelineDeps struct {
	Collector    *Collector
	Cleaner      *ListingCleaner
	Enricher     *Enricher
	MovieCleaner *MovieCleaner
	Loader       *Loader
	Logger       *slog.Logger

	EnrichInputs []string
	TitleColumn  string
	EnrichOutput string
}

// Pipeline runs the stages individually or in sequence. Stages share data only
// through files, so each one can run on its own.
type Pipeline struct {
	collector    *Collector
	cleaner      *ListingCleaner
	enricher     *Enricher
	movieCleaner *MovieCleaner
	loader       *Loader
	logger       *slog.Logger

	enrichInputs []string
	titleColumn  string
	enrichOutput string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		collector:    deps.Collector,
		cleaner:      deps.Cleaner,
		enricher:     deps.Enricher,
		movieCleaner: deps.MovieCleaner,
		loader:       deps.Loader,
		logger:       orDiscard(deps.Logger),
		enrichInputs: deps.EnrichInputs,
		titleColumn:  deps.TitleColumn,
		enrichOutput: deps.EnrichOutput,
	}
}

// Collect scrapes every source into its raw listing file.
func (p *Pipeline) Collect(ctx context.Context) error {
	if p.collector == nil {
		return nil
	}
	reports, err := p.collector.Collect(ctx)
	for _, r := range reports {
		p.logger.Info("collect finished", "source", r.Source, "rows", r.Rows, "skipped_years", len(r.Skipped))
	}
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	return nil
}

// CleanListings filters the raw listing files.
func (p *Pipeline) CleanListings(_ context.Context) error {
	if p.cleaner == nil {
		return nil
	}
	reports, err := p.cleaner.CleanAll()
	for _, r := range reports {
		p.logger.Info("clean listings finished", "input", r.Input, "rows_in", r.RowsIn, "rows_out", r.RowsOut)
	}
	if err != nil {
		return fmt.Errorf("clean listings: %w", err)
	}
	return nil
}

// Enrich resolves the cleaned titles against the metadata API.
func (p *Pipeline) Enrich(ctx context.Context) error {
	if p.enricher == nil {
		return nil
	}
	report, err := p.enricher.Run(ctx, p.enrichInputs, p.titleColumn, p.enrichOutput)
	p.logger.Info("enrich finished", "names", report.Names, "resolved", report.Resolved, "skipped", len(report.Skipped))
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}
	return nil
}

// CleanMovies refines the enrichment file.
func (p *Pipeline) CleanMovies(_ context.Context) error {
	if p.movieCleaner == nil {
		return nil
	}
	report, err := p.movieCleaner.Clean()
	p.logger.Info("clean movies finished", "rows_in", report.RowsIn, "rows_out", report.RowsOut)
	if err != nil {
		return fmt.Errorf("clean movies: %w", err)
	}
	return nil
}

// Load replaces the destination tables.
func (p *Pipeline) Load(ctx context.Context) error {
	if p.loader == nil {
		return nil
	}
	results, err := p.loader.Load(ctx)
	for _, r := range results {
		p.logger.Info("load finished", "table", r.Table, "status", string(r.Status), "rows", r.Rows)
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// RunAll executes every stage in order. A failing stage is recorded and the
// next one still runs against whatever files exist.
func (p *Pipeline) RunAll(ctx context.Context) error {
	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"collect", p.Collect},
		{"clean-listings", p.CleanListings},
		{"enrich", p.Enrich},
		{"clean-movies", p.CleanMovies},
		{"load", p.Load},
	}

	var errs []error
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p.logger.Info("stage started", "stage", stage.name)
		if err := stage.run(ctx); err != nil {
			p.logger.Error("stage failed", "stage", stage.name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
