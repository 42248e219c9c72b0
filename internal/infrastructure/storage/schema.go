package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"BoxOfficeETL/internal/table"
)

type columnType int

const (
	typeText columnType = iota
	typeBigInt
	typeDouble
	typeBoolean
	typeDate
)

const dateLayout = "2006-01-02"

func (c columnType) SQL() string {
	switch c {
	case typeBigInt:
		return "BIGINT"
	case typeDouble:
		return "DOUBLE PRECISION"
	case typeBoolean:
		return "BOOLEAN"
	case typeDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

// inferSchema picks the narrowest SQL type that fits every non-missing value of each column.
func inferSchema(frame *table.Frame) []columnType {
	types := make([]columnType, len(frame.Columns))
	for i := range frame.Columns {
		values := make([]string, 0, len(frame.Rows))
		for _, row := range frame.Rows {
			values = append(values, row[i])
		}
		types[i] = inferColumnType(values)
	}
	return types
}

func inferColumnType(values []string) columnType {
	isInt, isFloat, isBool, isDate := true, true, true, true
	seen := false

	for _, raw := range values {
		if table.IsMissing(raw) {
			continue
		}
		seen = true
		v := strings.TrimSpace(raw)

		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := parseFloat(v); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, err := parseBool(v); err != nil {
				isBool = false
			}
		}
		if isDate {
			if _, err := time.Parse(dateLayout, v); err != nil {
				isDate = false
			}
		}
	}

	switch {
	case !seen:
		return typeText
	case isBool:
		return typeBoolean
	case isInt:
		return typeBigInt
	case isFloat:
		return typeDouble
	case isDate:
		return typeDate
	default:
		return typeText
	}
}

// convert turns a CSV cell into a driver value for the inferred column type. Missing cells become NULL.
func convert(raw string, t columnType) (any, error) {
	if table.IsMissing(raw) {
		return nil, nil
	}
	v := strings.TrimSpace(raw)

	switch t {
	case typeBigInt:
		return strconv.ParseInt(v, 10, 64)
	case typeDouble:
		return parseFloat(v)
	case typeBoolean:
		return parseBool(v)
	case typeDate:
		if _, err := time.Parse(dateLayout, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return raw, nil
	}
}

// parseFloat rejects the textual infinities and NaN that strconv accepts.
func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return 0, fmt.Errorf("non-finite number %q", v)
	}
	return f, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", v)
	}
}
