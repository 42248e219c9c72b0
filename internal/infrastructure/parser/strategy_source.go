package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/scanner"
)

// StrategySource implements ListingSource via registered scanner strategies.
type StrategySource struct {
	registry  *scanner.Registry
	sources   map[string]config.SourceConfig
	firstYear int
	lastYear  int
	logger    *slog.Logger
}

var _ ports.ListingSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources and year range.
func NewStrategySource(reg *scanner.Registry, cfg config.CollectorConfig, log *slog.Logger) *StrategySource {
	sources := make(map[string]config.SourceConfig, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources[src.Name] = src
	}
	return &StrategySource{
		registry:  reg,
		sources:   sources,
		firstYear: cfg.FirstYear,
		lastYear:  cfg.LastYear,
		logger:    log,
	}
}

// FetchListings scans every year of the inclusive range. A failing year is
// recorded and skipped; it never stops the remaining years.
func (s *StrategySource) FetchListings(ctx context.Context, source string) ([]domain.ListingRecord, []error) {
	src, ok := s.sources[source]
	if !ok {
		return nil, []error{failure.MissingResource("resolve source", source, fmt.Errorf("source %s is not configured", source))}
	}
	if s.registry == nil {
		return nil, []error{failure.MissingResource("resolve scanner", src.Scanner, fmt.Errorf("scanner registry is not configured"))}
	}
	strategy, err := s.registry.Resolve(src.Scanner)
	if err != nil {
		return nil, []error{failure.MissingResource("resolve scanner", src.Scanner, err)}
	}

	s.debug("fetch listings", "source", source, "scanner", src.Scanner, "from", s.firstYear, "to", s.lastYear)

	var (
		records []domain.ListingRecord
		skipped []error
	)
	for year := s.firstYear; year <= s.lastYear; year++ {
		if err := ctx.Err(); err != nil {
			skipped = append(skipped, failure.Transport("fetch year", strconv.Itoa(year), err))
			break
		}

		results, err := strategy.Scan(ctx, scanner.Request{
			Year:        year,
			SourceName:  source,
			URLTemplate: src.URLTemplate,
			TitleCell:   src.TitleCell,
			WeekendCell: src.WeekendCell,
		})
		if err != nil {
			skipped = append(skipped, failure.Reclassify(err, failure.KindTransport, "fetch year", strconv.Itoa(year)))
			continue
		}

		s.debug("year produced rows", "source", source, "year", year, "count", len(results))
		records = append(records, results...)
	}

	s.debug("strategy source done", "source", source, "total_rows", len(records), "skipped_years", len(skipped))
	return records, skipped
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
