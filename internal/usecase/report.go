package usecase

import (
	"io"
	"log/slog"

	"BoxOfficeETL/internal/failure"
)

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// logSkip reports a unit of work that was skipped, tagged with its failure kind.
func logSkip(logger *slog.Logger, msg string, err error, args ...any) {
	kind, ok := failure.KindOf(err)
	if !ok {
		kind = "unclassified"
	}
	logger.Warn(msg, append(args, "kind", string(kind), "error", err)...)
}
