package usecase

import (
	"context"
	"errors"
	"log/slog"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/table"
)

// LoadStatus is the outcome of one table load.
type LoadStatus string

const (
	StatusLoaded  LoadStatus = "loaded"
	StatusSkipped LoadStatus = "skipped"
	StatusFailed  LoadStatus = "failed"
)

// TableResult records what happened to one target table.
type TableResult struct {
	File   string
	Table  string
	Status LoadStatus
	Rows   int
	Err    error
}

// Loader replaces each destination table with the content of its cleaned file.
type Loader struct {
	connect ports.Connector
	targets []config.TableTarget
	logger  *slog.Logger
}

// NewLoader wires the store connector with the configured targets.
func NewLoader(connect ports.Connector, targets []config.TableTarget, logger *slog.Logger) *Loader {
	return &Loader{connect: connect, targets: targets, logger: orDiscard(logger)}
}

// Load reads every target file, connects once and replaces each table on its
// own. A failed file or table never prevents the others. When the connection
// cannot be established every target is reported as skipped.
func (l *Loader) Load(ctx context.Context) ([]TableResult, error) {
	results := make([]TableResult, len(l.targets))
	frames := make([]*table.Frame, len(l.targets))

	for i, target := range l.targets {
		results[i] = TableResult{File: target.File, Table: target.Table}
		frame, err := table.ReadFile(target.File)
		if err != nil {
			results[i].Status = StatusSkipped
			results[i].Err = err
			logSkip(l.logger, "skip table", err, "table", target.Table, "file", target.File)
			continue
		}
		frames[i] = frame
		results[i].Rows = frame.Len()
	}

	store, err := l.connect(ctx)
	if err != nil {
		err = failure.Reclassify(err, failure.KindPersistence, "connect", "database")
		for i := range results {
			if results[i].Status != "" {
				continue
			}
			results[i].Status = StatusSkipped
			results[i].Err = err
			logSkip(l.logger, "skip table", err, "table", results[i].Table)
		}
		return results, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			l.logger.Warn("close database", "error", cerr)
		}
	}()

	var errs []error
	for i, frame := range frames {
		if frame == nil {
			continue
		}
		name := results[i].Table
		if err := store.ReplaceTable(ctx, name, frame); err != nil {
			err = failure.Reclassify(err, failure.KindPersistence, "replace table", name)
			results[i].Status = StatusFailed
			results[i].Err = err
			errs = append(errs, err)
			logSkip(l.logger, "table not loaded", err, "table", name)
			continue
		}
		results[i].Status = StatusLoaded
		l.logger.Info("table loaded", "table", name, "rows", results[i].Rows)
	}

	return results, errors.Join(errs...)
}
