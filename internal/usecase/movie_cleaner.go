package usecase

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/table"
)

// MovieCleanReport summarises a record-cleaning pass.
type MovieCleanReport struct {
	Input   string
	Output  string
	RowsIn  int
	RowsOut int
}

// MovieCleaner turns the raw enrichment file into the final per-title table.
type MovieCleaner struct {
	input  string
	output string
	layout string
	groups []domain.GenreGroup
	logger *slog.Logger
}

// NewMovieCleaner wires file paths, date layout and genre groups.
func NewMovieCleaner(cfg config.RefinerConfig, logger *slog.Logger) *MovieCleaner {
	layout := cfg.DateLayout
	if layout == "" {
		layout = domain.ReleaseDateLayout
	}
	groups := cfg.GenreGroups
	if len(groups) == 0 {
		groups = domain.DefaultGenreGroups()
	}
	return &MovieCleaner{
		input:  cfg.Input,
		output: cfg.Output,
		layout: layout,
		groups: groups,
		logger: orDiscard(logger),
	}
}

// Clean loads, cleans and saves. Nothing is written when loading or cleaning fails.
func (m *MovieCleaner) Clean() (MovieCleanReport, error) {
	report := MovieCleanReport{Input: m.input, Output: m.output}

	frame, err := table.ReadFile(m.input)
	if err != nil {
		logSkip(m.logger, "enrichment file not loaded", err, "path", m.input)
		return report, err
	}
	report.RowsIn = frame.Len()

	cleaned, err := CleanMovieFrame(frame, m.groups, m.layout)
	if err != nil {
		err = failure.Reclassify(err, failure.KindMalformedInput, "clean movies", m.input)
		logSkip(m.logger, "enrichment file not cleaned", err, "path", m.input)
		return report, err
	}
	report.RowsOut = cleaned.Len()

	if err := table.WriteFile(m.output, cleaned); err != nil {
		m.logger.Error("cleaned movies not saved", "path", m.output, "error", err)
		return report, err
	}

	m.logger.Info("cleaned movies saved", "path", m.output, "rows_in", report.RowsIn, "rows_out", report.RowsOut)
	return report, nil
}

// CleanMovieFrame normalises release dates, removes duplicates, replaces the
// genre list with one boolean column per group and keeps only rows that fall
// into at least one group. The input frame is not modified.
func CleanMovieFrame(frame *table.Frame, groups []domain.GenreGroup, layout string) (*table.Frame, error) {
	for _, col := range []string{domain.MovieTitleColumn, domain.MovieReleaseDateColumn, domain.MovieGenresColumn} {
		if frame.Index(col) < 0 {
			return nil, failure.MalformedInput("clean movies", col, fmt.Errorf("column %s not found", col))
		}
	}

	out, err := frame.DropMissing(domain.MovieTitleColumn)
	if err != nil {
		return nil, err
	}

	out, err = out.Map(domain.MovieReleaseDateColumn, func(value string) string {
		return normaliseDate(value, layout)
	})
	if err != nil {
		return nil, err
	}

	out = out.DropDuplicates()

	genresIdx := out.Index(domain.MovieGenresColumn)
	for _, group := range groups {
		group := group
		out = out.AddColumn(group.Name, func(row []string) string {
			return strconv.FormatBool(group.Matches(splitGenres(row[genresIdx])))
		})
	}

	first := len(out.Columns) - len(groups)
	kept := out.Filter(func(row []string) bool {
		for _, v := range row[first:] {
			if v == "true" {
				return true
			}
		}
		return false
	})

	return kept.DropColumns(domain.MovieGenresColumn), nil
}

// normaliseDate re-emits a parseable date in ISO form; anything else becomes missing.
func normaliseDate(value, layout string) string {
	value = strings.TrimSpace(value)
	if table.IsMissing(value) {
		return ""
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return ""
	}
	return t.Format(domain.ReleaseDateLayout)
}

// splitGenres breaks a stored genre list into trimmed tokens.
func splitGenres(value string) []string {
	if table.IsMissing(value) {
		return nil
	}
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
