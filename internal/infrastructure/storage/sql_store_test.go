package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/table"
)

func setupTestStore(t *testing.T) (*SQLStore, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLStore(db, driverSQLite), db
}

func columnTypes(t *testing.T, db *sql.DB, name string) map[string]string {
	t.Helper()

	rows, err := db.Query(`SELECT name, type FROM pragma_table_info(?)`, name)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var col, typ string
		require.NoError(t, rows.Scan(&col, &typ))
		out[col] = typ
	}
	require.NoError(t, rows.Err())
	return out
}

func TestReplaceTableCreatesAndInserts(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	frame := table.New("Title", "Release Date", "Runtime", "Revenue", "Drama")
	frame.Append("Heat", "1995-12-15", "170", "187436818.5", "true")
	frame.Append("Up", "", "", "", "false")

	require.NoError(t, store.ReplaceTable(ctx, "individual_movie_details", frame))

	types := columnTypes(t, db, "individual_movie_details")
	require.Equal(t, map[string]string{
		"Title":        "TEXT",
		"Release Date": "DATE",
		"Runtime":      "BIGINT",
		"Revenue":      "DOUBLE PRECISION",
		"Drama":        "BOOLEAN",
	}, types)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM individual_movie_details`).Scan(&count))
	require.Equal(t, 2, count)

	var runtime sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT "Runtime" FROM individual_movie_details WHERE "Title" = 'Up'`).Scan(&runtime))
	require.False(t, runtime.Valid)

	var revenue float64
	require.NoError(t, db.QueryRow(`SELECT "Revenue" FROM individual_movie_details WHERE "Title" = 'Heat'`).Scan(&revenue))
	require.InDelta(t, 187436818.5, revenue, 0.001)
}

func TestReplaceTableDropsPreviousSchema(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	first := table.New("Year", "Number_1_Release", "Weekend_Number")
	first.Append("2002", "Ice Age", "12")
	first.Append("2002", "Spider-Man", "18")
	require.NoError(t, store.ReplaceTable(ctx, "uk_box_office", first))

	second := table.New("Year", "Title")
	second.Append("2023", "Barbie")
	require.NoError(t, store.ReplaceTable(ctx, "uk_box_office", second))

	types := columnTypes(t, db, "uk_box_office")
	require.Equal(t, map[string]string{"Year": "BIGINT", "Title": "TEXT"}, types)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM uk_box_office`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestReplaceTableBatchesLargeFrames(t *testing.T) {
	store, db := setupTestStore(t)

	frame := table.New("Year", "Number_1_Release", "Weekend_Number")
	for i := 0; i < 1234; i++ {
		frame.Append("2005", "Title", "1")
	}
	require.NoError(t, store.ReplaceTable(context.Background(), "usa_boxoffice", frame))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM usa_boxoffice`).Scan(&count))
	require.Equal(t, 1234, count)
}

func TestReplaceTableHeaderOnly(t *testing.T) {
	store, db := setupTestStore(t)

	require.NoError(t, store.ReplaceTable(context.Background(), "empty", table.New("a", "b")))
	require.Equal(t, map[string]string{"a": "TEXT", "b": "TEXT"}, columnTypes(t, db, "empty"))
}

func TestReplaceTableRejectsNoColumns(t *testing.T) {
	store, _ := setupTestStore(t)
	require.Error(t, store.ReplaceTable(context.Background(), "x", &table.Frame{}))
}

func TestOpenSQLite(t *testing.T) {
	store, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
}

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		values []string
		want   columnType
	}{
		{[]string{"", "NaN"}, typeText},
		{[]string{"1", "2", ""}, typeBigInt},
		{[]string{"1", "2.5"}, typeDouble},
		{[]string{"1e3"}, typeDouble},
		{[]string{"true", "False"}, typeBoolean},
		{[]string{"2020-01-31", ""}, typeDate},
		{[]string{"2020-01-31", "soon"}, typeText},
		{[]string{"Inf"}, typeText},
		{[]string{"1", "0"}, typeBigInt},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, inferColumnType(tc.values), "%v", tc.values)
	}
}

func TestBatchSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, 300, batchSize(3))
	require.Equal(t, 1, batchSize(2000))
	require.Equal(t, maxBatchRows, batchSize(1))
}

func TestBuildInsertPostgresPlaceholders(t *testing.T) {
	t.Parallel()

	store := NewSQLStore(nil, driverPostgres)
	query, args, err := store.buildInsert(`"individual_movie_details"`, []string{`"Title"`, `"Why?"`}, [][]any{
		{"Heat", true},
		{"Up", nil},
	})
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "individual_movie_details" ("Title","Why?") VALUES ($1,$2),($3,$4)`, query)
	require.Equal(t, []any{"Heat", true, "Up", nil}, args)
}

func TestBuildInsertSQLitePlaceholders(t *testing.T) {
	t.Parallel()

	store := NewSQLStore(nil, driverSQLite)
	query, _, err := store.buildInsert(`"t"`, []string{`"a?"`}, [][]any{{"x"}})
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "t" ("a?") VALUES (?)`, query)
}

func TestReplaceTableQuestionMarkInColumn(t *testing.T) {
	store, db := setupTestStore(t)

	frame := table.New("Title", "Family?")
	frame.Append("Up", "true")
	require.NoError(t, store.ReplaceTable(context.Background(), "movies", frame))

	var family bool
	require.NoError(t, db.QueryRow(`SELECT "Family?" FROM movies`).Scan(&family))
	require.True(t, family)
}
