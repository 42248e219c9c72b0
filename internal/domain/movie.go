package domain

import (
	"strconv"
	"strings"
)

// Column names of the enrichment tables.
const (
	MovieTitleColumn       = "Title"
	MovieReleaseDateColumn = "Release Date"
	MovieRuntimeColumn     = "Runtime"
	MovieGenresColumn      = "Genres"
	MovieRevenueColumn     = "Revenue"
)

// ReleaseDateLayout is the format the metadata API uses for release dates.
const ReleaseDateLayout = "2006-01-02"

// SearchHit is a single candidate returned by the metadata search endpoint.
type SearchHit struct {
	ID int
}

// MovieDetails holds the attributes kept for a resolved title.
type MovieDetails struct {
	ReleaseDate string
	Runtime     *int
	Genres      []string
	Revenue     *float64
}

// GenreList joins genre names the way they are stored in the enrichment file.
func (m MovieDetails) GenreList() string {
	return strings.Join(m.Genres, ", ")
}

// Row renders the details as enrichment-file cells, keyed by title.
func (m MovieDetails) Row(title string) []string {
	runtime := ""
	if m.Runtime != nil {
		runtime = strconv.Itoa(*m.Runtime)
	}
	revenue := ""
	if m.Revenue != nil {
		revenue = strconv.FormatFloat(*m.Revenue, 'f', -1, 64)
	}
	return []string{title, m.ReleaseDate, runtime, m.GenreList(), revenue}
}

// MovieColumns returns the header written for the enrichment file.
func MovieColumns() []string {
	return []string{
		MovieTitleColumn,
		MovieReleaseDateColumn,
		MovieRuntimeColumn,
		MovieGenresColumn,
		MovieRevenueColumn,
	}
}
