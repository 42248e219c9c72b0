package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"BoxOfficeETL/internal/failure"
)

// ErrEmpty is returned when a file has no header row.
var ErrEmpty = errors.New("no columns to parse")

// Read decodes CSV with a header row.
func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	frame := New(header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		frame.Rows = append(frame.Rows, record)
	}

	return frame, nil
}

// ReadFile loads a CSV file, classifying failures as missing or malformed input.
func ReadFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.MissingResource("read table", path, err)
		}
		return nil, failure.MalformedInput("read table", path, err)
	}
	defer f.Close()

	frame, err := Read(f)
	if err != nil {
		return nil, failure.MalformedInput("read table", path, err)
	}
	return frame, nil
}

// Write encodes the frame as CSV with a header row.
func (f *Frame) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(f.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteFile stores the frame at path, creating parent directories.
// The file is replaced atomically so a failed write never leaves a truncated table behind.
func WriteFile(path string, frame *Frame) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failure.Persistence("write table", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return failure.Persistence("write table", path, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return failure.Persistence("write table", path, err)
	}
	if err := frame.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return failure.Persistence("write table", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return failure.Persistence("write table", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return failure.Persistence("write table", path, err)
	}
	return nil
}
