package ports

import (
	"context"

	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/table"
)

// ListingSource pulls weekend chart rows for one configured source over a year range.
// Per-year failures are returned alongside whatever rows were collected.
type ListingSource interface {
	FetchListings(ctx context.Context, source string) ([]domain.ListingRecord, []error)
}

// MovieLookup resolves titles against the external metadata API.
type MovieLookup interface {
	SearchMovie(ctx context.Context, title string) ([]domain.SearchHit, error)
	MovieDetails(ctx context.Context, id int) (domain.MovieDetails, error)
}

// TableStore replaces whole tables in the relational destination.
type TableStore interface {
	ReplaceTable(ctx context.Context, name string, frame *table.Frame) error
	Close() error
}

// Connector opens the relational destination.
type Connector func(ctx context.Context) (TableStore, error)
