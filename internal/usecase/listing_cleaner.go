package usecase

import (
	"errors"
	"log/slog"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/table"
)

// CleanReport summarises one cleaned file.
type CleanReport struct {
	Input   string
	Output  string
	RowsIn  int
	RowsOut int
}

// ListingCleaner removes rows without a title and exact duplicates from raw listing files.
type ListingCleaner struct {
	requiredColumn string
	files          []config.FilePair
	logger         *slog.Logger
}

// NewListingCleaner wires the key column and file pairs.
func NewListingCleaner(cfg config.CleanerConfig, logger *slog.Logger) *ListingCleaner {
	return &ListingCleaner{requiredColumn: cfg.RequiredColumn, files: cfg.Files, logger: orDiscard(logger)}
}

// CleanAll processes every configured pair; each pair succeeds or fails on its own.
func (c *ListingCleaner) CleanAll() ([]CleanReport, error) {
	reports := make([]CleanReport, 0, len(c.files))
	var errs []error
	for _, pair := range c.files {
		report, err := c.CleanFile(pair.Input, pair.Output)
		if err != nil {
			logSkip(c.logger, "skip listing file", err, "input", pair.Input)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// CleanFile loads input, filters it and writes output. Nothing is written when loading fails.
func (c *ListingCleaner) CleanFile(input, output string) (CleanReport, error) {
	report := CleanReport{Input: input, Output: output}

	frame, err := table.ReadFile(input)
	if err != nil {
		return report, err
	}
	report.RowsIn = frame.Len()

	cleaned, err := CleanListingFrame(frame, c.requiredColumn)
	if err != nil {
		return report, failure.MalformedInput("clean listings", input, err)
	}
	report.RowsOut = cleaned.Len()

	if err := table.WriteFile(output, cleaned); err != nil {
		return report, err
	}

	c.logger.Info("cleaned listings saved", "input", input, "path", output, "rows_in", report.RowsIn, "rows_out", report.RowsOut)
	return report, nil
}

// CleanListingFrame drops rows missing the key column, then exact duplicates.
// Rows are only removed, never changed.
func CleanListingFrame(frame *table.Frame, keyColumn string) (*table.Frame, error) {
	kept, err := frame.DropMissing(keyColumn)
	if err != nil {
		return nil, err
	}
	return kept.DropDuplicates(), nil
}
