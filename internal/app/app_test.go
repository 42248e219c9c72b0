package app

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/table"
	"BoxOfficeETL/internal/usecase"
)

func TestOfflineStagesLoadIntoSQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rawUK := filepath.Join(dir, "raw_uk.csv")
	cleanUK := filepath.Join(dir, "clean_uk.csv")
	rawMovies := filepath.Join(dir, "movies_raw.csv")
	cleanMovies := filepath.Join(dir, "movies_clean.csv")
	dbPath := filepath.Join(dir, "boxoffice.db")

	listings := table.New(domain.ListingColumns()...)
	listings.Append("2008", "The Dark Knight", "29")
	listings.Append("2008", "The Dark Knight", "29")
	listings.Append("2008", "", "30")
	require.NoError(t, table.WriteFile(rawUK, listings))

	movies := table.New(domain.MovieColumns()...)
	movies.Append("The Dark Knight", "2008-07-16", "152", "Drama, Action, Crime, Thriller", "1004558444")
	require.NoError(t, table.WriteFile(rawMovies, movies))

	cfg := config.Config{
		Cleaner: config.CleanerConfig{
			RequiredColumn: domain.ListingTitleColumn,
			Files:          []config.FilePair{{Input: rawUK, Output: cleanUK}},
		},
		Refiner: config.RefinerConfig{
			Input:       rawMovies,
			Output:      cleanMovies,
			DateLayout:  domain.ReleaseDateLayout,
			GenreGroups: domain.DefaultGenreGroups(),
		},
		Database: config.DatabaseConfig{Driver: "sqlite3", DSN: dbPath},
		Loader: config.LoaderConfig{Tables: []config.TableTarget{
			{File: cleanUK, Table: "uk_box_office"},
			{File: cleanMovies, Table: "individual_movie_details"},
		}},
	}

	application := New(cfg, nil)
	ctx := context.Background()
	require.NoError(t, application.CleanListings(ctx))
	require.NoError(t, application.CleanMovies(ctx))
	require.NoError(t, application.Load(ctx))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM uk_box_office`).Scan(&count))
	require.Equal(t, 1, count)

	var drama bool
	require.NoError(t, db.QueryRow(`SELECT "Drama" FROM individual_movie_details WHERE "Title" = 'The Dark Knight'`).Scan(&drama))
	require.True(t, drama)
}

func TestEnrichRequiresAPIKey(t *testing.T) {
	t.Parallel()

	application := New(config.Config{}, nil)
	require.ErrorIs(t, application.Enrich(context.Background()), usecase.ErrLookupNotConfigured)
}
