package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/table"
)

// CollectReport summarises one source's scrape.
type CollectReport struct {
	Source  string
	Output  string
	Rows    int
	Skipped []error
}

// Collector scrapes every configured source and writes one raw listing file per source.
type Collector struct {
	source  ports.ListingSource
	sources []config.SourceConfig
	logger  *slog.Logger
}

// NewCollector wires the listing source with the configured outputs.
func NewCollector(source ports.ListingSource, sources []config.SourceConfig, logger *slog.Logger) *Collector {
	return &Collector{source: source, sources: sources, logger: orDiscard(logger)}
}

// Collect runs every source in order. Sources are independent: a failed write
// for one does not stop the next.
func (c *Collector) Collect(ctx context.Context) ([]CollectReport, error) {
	reports := make([]CollectReport, 0, len(c.sources))
	var errs []error
	for _, src := range c.sources {
		report, err := c.CollectSource(ctx, src)
		reports = append(reports, report)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

// CollectSource scrapes one source and writes whatever was gathered, even when every year failed.
func (c *Collector) CollectSource(ctx context.Context, src config.SourceConfig) (CollectReport, error) {
	report := CollectReport{Source: src.Name, Output: src.Output}

	records, skipped := c.source.FetchListings(ctx, src.Name)
	report.Rows = len(records)
	report.Skipped = skipped
	for _, err := range skipped {
		logSkip(c.logger, "skip year", err, "source", src.Name)
	}

	if err := table.WriteFile(src.Output, ListingFrame(records)); err != nil {
		c.logger.Error("raw listings not saved", "source", src.Name, "path", src.Output, "error", err)
		return report, err
	}

	c.logger.Info("raw listings saved", "source", src.Name, "path", src.Output, "rows", report.Rows, "skipped_years", len(skipped))
	return report, nil
}

// ListingFrame renders listing records with the raw-file header.
func ListingFrame(records []domain.ListingRecord) *table.Frame {
	frame := table.New(domain.ListingColumns()...)
	for _, r := range records {
		frame.Append(strconv.Itoa(r.Year), r.NumberOneRelease, r.WeekendNumber)
	}
	return frame
}
