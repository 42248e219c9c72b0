package table

import (
	"fmt"
	"strings"
)

// missingTokens mirrors the values pandas reads as NaN by default.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
}

// IsMissing reports whether a cell value counts as absent.
func IsMissing(value string) bool {
	_, ok := missingTokens[strings.TrimSpace(value)]
	return ok
}

// Frame is an in-memory CSV table: a header plus rows of equal width.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty frame with the given header.
func New(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Append adds a row; short rows are padded with empty cells.
func (f *Frame) Append(values ...string) {
	row := make([]string, len(f.Columns))
	copy(row, values)
	f.Rows = append(f.Rows, row)
}

// Index returns the position of a column or -1.
func (f *Frame) Index(column string) int {
	for i, name := range f.Columns {
		if name == column {
			return i
		}
	}
	return -1
}

// Column returns a copy of a column's values.
func (f *Frame) Column(name string) ([]string, error) {
	idx := f.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		values = append(values, row[idx])
	}
	return values, nil
}

// Filter returns a new frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(row []string) bool) *Frame {
	out := New(f.Columns...)
	for _, row := range f.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// DropMissing removes rows whose value in column is missing.
func (f *Frame) DropMissing(column string) (*Frame, error) {
	idx := f.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}
	return f.Filter(func(row []string) bool {
		return !IsMissing(row[idx])
	}), nil
}

// DropDuplicates removes exact full-row duplicates, keeping the first occurrence.
func (f *Frame) DropDuplicates() *Frame {
	seen := make(map[string]struct{}, len(f.Rows))
	return f.Filter(func(row []string) bool {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// DropColumns returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) DropColumns(names ...string) *Frame {
	drop := make(map[int]struct{}, len(names))
	for _, name := range names {
		if idx := f.Index(name); idx >= 0 {
			drop[idx] = struct{}{}
		}
	}

	keep := make([]int, 0, len(f.Columns))
	out := &Frame{}
	for i, name := range f.Columns {
		if _, ok := drop[i]; ok {
			continue
		}
		keep = append(keep, i)
		out.Columns = append(out.Columns, name)
	}

	for _, row := range f.Rows {
		next := make([]string, 0, len(keep))
		for _, i := range keep {
			next = append(next, row[i])
		}
		out.Rows = append(out.Rows, next)
	}
	return out
}

// AddColumn returns a frame with an extra column computed per row.
func (f *Frame) AddColumn(name string, value func(row []string) string) *Frame {
	out := New(append(append([]string(nil), f.Columns...), name)...)
	for _, row := range f.Rows {
		next := make([]string, 0, len(row)+1)
		next = append(next, row...)
		next = append(next, value(row))
		out.Rows = append(out.Rows, next)
	}
	return out
}

// Map returns a frame where the named column is rewritten by fn.
func (f *Frame) Map(column string, fn func(value string) string) (*Frame, error) {
	idx := f.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}
	out := New(f.Columns...)
	for _, row := range f.Rows {
		next := append([]string(nil), row...)
		next[idx] = fn(row[idx])
		out.Rows = append(out.Rows, next)
	}
	return out, nil
}

// Missing values compare equal regardless of their spelling, as NaN does in pandas.
func rowKey(row []string) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if IsMissing(v) {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}
