package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/ports"
	"BoxOfficeETL/internal/table"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"

	// maxParams stays under the lowest bind-variable limit of the supported drivers.
	maxParams    = 900
	maxBatchRows = 500
)

// SQLStore replaces whole tables in Postgres or SQLite.
type SQLStore struct {
	db          *sql.DB
	placeholder sq.PlaceholderFormat
}

var _ ports.TableStore = (*SQLStore)(nil)

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*SQLStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = driverPostgres
	}
	if driver != driverPostgres && driver != driverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return NewSQLStore(db, driver), nil
}

// NewSQLStore wires an existing sql.DB; driver selects the placeholder style.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == driverPostgres {
		placeholder = sq.Dollar
	}
	return &SQLStore{db: db, placeholder: placeholder}
}

// ReplaceTable drops any existing table called name, recreates it with a schema
// inferred from the frame, and inserts every row. The replacement is one transaction.
func (s *SQLStore) ReplaceTable(ctx context.Context, name string, frame *table.Frame) error {
	if s.db == nil {
		return fmt.Errorf("database is not configured")
	}
	if frame == nil || len(frame.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	types := inferSchema(frame)
	quotedTable := pq.QuoteIdentifier(name)
	quotedCols := make([]string, len(frame.Columns))
	defs := make([]string, len(frame.Columns))
	for i, col := range frame.Columns {
		quotedCols[i] = pq.QuoteIdentifier(col)
		defs[i] = quotedCols[i] + " " + types[i].SQL()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quotedTable); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quotedTable, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	batch := batchSize(len(frame.Columns))
	for start := 0; start < len(frame.Rows); start += batch {
		end := start + batch
		if end > len(frame.Rows) {
			end = len(frame.Rows)
		}

		values := make([][]any, 0, end-start)
		for i, row := range frame.Rows[start:end] {
			converted := make([]any, len(row))
			for j, cell := range row {
				v, err := convert(cell, types[j])
				if err != nil {
					return fmt.Errorf("row %d column %s: %w", start+i+1, frame.Columns[j], err)
				}
				converted[j] = v
			}
			values = append(values, converted)
		}

		query, args, err := s.buildInsert(quotedTable, quotedCols, values)
		if err != nil {
			return fmt.Errorf("build insert for %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// buildInsert renders one multi-row INSERT. Numbered placeholders rewrite every
// "?" in the statement, so literal marks inside quoted identifiers are escaped.
func (s *SQLStore) buildInsert(quotedTable string, quotedCols []string, rows [][]any) (string, []any, error) {
	escape := func(ident string) string { return ident }
	if s.placeholder == sq.Dollar {
		escape = func(ident string) string { return strings.ReplaceAll(ident, "?", "??") }
	}

	cols := make([]string, len(quotedCols))
	for i, col := range quotedCols {
		cols[i] = escape(col)
	}

	insert := sq.Insert(escape(quotedTable)).Columns(cols...).PlaceholderFormat(s.placeholder)
	for _, row := range rows {
		insert = insert.Values(row...)
	}
	return insert.ToSql()
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func batchSize(columns int) int {
	rows := maxParams / columns
	if rows < 1 {
		rows = 1
	}
	if rows > maxBatchRows {
		rows = maxBatchRows
	}
	return rows
}
