package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/table"
)

// ErrLookupNotConfigured is returned when enrichment is requested without API credentials.
var ErrLookupNotConfigured = errors.New("movie lookup is not configured: set TMDB_API_KEY")

// EnrichReport summarises an enrichment pass.
type EnrichReport struct {
	Names    int
	Queried  int
	Resolved int
	Skipped  []error
	Output   string
}

// Enricher resolves titles against the metadata API, one name at a time.
type Enricher struct {
	lookup ports.MovieLookup
	delay  time.Duration
	wait   func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
}

// NewEnricher wires a lookup with the pause kept between names. A nil lookup
// makes every run fail with ErrLookupNotConfigured.
func NewEnricher(lookup ports.MovieLookup, delay time.Duration, logger *slog.Logger) *Enricher {
	return &Enricher{lookup: lookup, delay: delay, wait: sleepContext, logger: orDiscard(logger)}
}

// UniqueNames collects the non-missing values of column across frames, in first-seen order.
func UniqueNames(column string, frames ...*table.Frame) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	for _, frame := range frames {
		values, err := frame.Column(column)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if table.IsMissing(v) {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			names = append(names, v)
		}
	}
	return names, nil
}

// Enrich resolves every name not already present in resolved and stores the
// result under the name. Each name reaches the API at most once per call; a
// name that fails is recorded and skipped. Without a lookup nothing is queried
// and ErrLookupNotConfigured is the only skip. resolved must not be nil.
func (e *Enricher) Enrich(ctx context.Context, names []string, resolved map[string]domain.MovieDetails) EnrichReport {
	report := EnrichReport{Names: len(names)}
	if e.lookup == nil {
		report.Skipped = append(report.Skipped, ErrLookupNotConfigured)
		return report
	}
	attempted := map[string]struct{}{}

	for _, name := range names {
		if table.IsMissing(name) {
			continue
		}
		if _, ok := resolved[name]; ok {
			continue
		}
		if _, ok := attempted[name]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Skipped = append(report.Skipped, failure.Transport("enrich", name, err))
			break
		}
		attempted[name] = struct{}{}

		details, err := e.resolve(ctx, name)
		report.Queried++
		if err != nil {
			logSkip(e.logger, "skip title", err, "title", name)
			report.Skipped = append(report.Skipped, err)
		} else {
			resolved[name] = details
			report.Resolved++
			e.logger.Debug("title resolved", "title", name)
		}

		if err := e.wait(ctx, e.delay); err != nil {
			report.Skipped = append(report.Skipped, failure.Transport("enrich", name, err))
			break
		}
	}

	return report
}

// resolve takes the first search hit and fetches its details.
func (e *Enricher) resolve(ctx context.Context, name string) (domain.MovieDetails, error) {
	hits, err := e.lookup.SearchMovie(ctx, name)
	if err != nil {
		return domain.MovieDetails{}, failure.Reclassify(err, failure.KindTransport, "search movie", name)
	}
	if len(hits) == 0 {
		return domain.MovieDetails{}, failure.NoMatch("search movie", name)
	}

	details, err := e.lookup.MovieDetails(ctx, hits[0].ID)
	if err != nil {
		return domain.MovieDetails{}, failure.Reclassify(err, failure.KindTransport, "movie details", name+" (id "+strconv.Itoa(hits[0].ID)+")")
	}
	return details, nil
}

// Run reads the cleaned listing files, enriches their titles and writes the enrichment file.
// Unreadable inputs are logged and skipped.
func (e *Enricher) Run(ctx context.Context, inputs []string, titleColumn, output string) (EnrichReport, error) {
	if e.lookup == nil {
		return EnrichReport{Output: output}, ErrLookupNotConfigured
	}

	var frames []*table.Frame
	var inputErrs []error
	for _, path := range inputs {
		frame, err := table.ReadFile(path)
		if err != nil {
			logSkip(e.logger, "skip enrichment input", err, "path", path)
			inputErrs = append(inputErrs, err)
			continue
		}
		if frame.Index(titleColumn) < 0 {
			err := failure.MalformedInput("read titles", path, errors.New("column "+titleColumn+" not found"))
			logSkip(e.logger, "skip enrichment input", err, "path", path)
			inputErrs = append(inputErrs, err)
			continue
		}
		frames = append(frames, frame)
	}

	names, err := UniqueNames(titleColumn, frames...)
	if err != nil {
		return EnrichReport{Output: output}, failure.MalformedInput("read titles", titleColumn, err)
	}

	resolved := make(map[string]domain.MovieDetails, len(names))
	report := e.Enrich(ctx, names, resolved)
	report.Output = output
	report.Skipped = append(inputErrs, report.Skipped...)

	if err := table.WriteFile(output, MovieFrame(resolved)); err != nil {
		return report, err
	}

	e.logger.Info("enrichment saved", "path", output, "names", report.Names, "queried", report.Queried, "resolved", report.Resolved, "skipped", len(report.Skipped))
	return report, nil
}

// MovieFrame renders resolved titles sorted by title.
func MovieFrame(resolved map[string]domain.MovieDetails) *table.Frame {
	titles := make([]string, 0, len(resolved))
	for title := range resolved {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	frame := table.New(domain.MovieColumns()...)
	for _, title := range titles {
		frame.Append(resolved[title].Row(title)...)
	}
	return frame
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
