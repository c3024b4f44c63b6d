// Package validate holds the policies that decide whether a query's actual
// rows match the expected result lines of a script record.
package validate

import (
	"strings"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"

	"sltrun/internal/config"
)

// noMoreResults stands in for the shorter side of a mismatch trace
const noMoreResults = "No more results"

// Normalizer maps one expected line or actual value to its comparable form
type Normalizer func(string) string

// Validator compares actual rows against expected lines
type Validator func(normalize Normalizer, actual [][]string, expected []string) bool

// ColumnValidator compares actual column type letters against expected ones
type ColumnValidator func(actual, expected string) bool

// TrimEnd drops trailing whitespace. Tests that care about trailing
// whitespace in a value should project a non-blank column after it.
func TrimEnd(s string) string {
	return strings.TrimRight(s, " \t\r\n\v\f")
}

// Strict joins each row's columns with a single space and normalizes the
// resulting line. Mismatches are traced at warn level.
func Strict(normalize Normalizer, actual [][]string, expected []string) bool {
	normalizedExpected := normalizeAll(normalize, expected)
	normalizedActual := make([]string, 0, len(actual))
	for _, row := range actual {
		normalizedActual = append(normalizedActual, normalize(strings.Join(row, " ")))
	}

	ok := equal(normalizedActual, normalizedExpected)
	if !ok {
		trace(zerolog.WarnLevel, "strict validation failed. actual vs expected:", normalizedActual, normalizedExpected)
	}
	return ok
}

// Sqlite normalizes every column before joining with a single space, which
// tolerates padding differences between engines. Mismatches are traced at
// info level.
func Sqlite(normalize Normalizer, actual [][]string, expected []string) bool {
	normalizedExpected := normalizeAll(normalize, expected)
	normalizedActual := make([]string, 0, len(actual))
	for _, row := range actual {
		cols := make([]string, len(row))
		for i, col := range row {
			cols[i] = normalize(col)
		}
		normalizedActual = append(normalizedActual, strings.Join(cols, " "))
	}

	ok := equal(normalizedActual, normalizedExpected)
	if !ok {
		trace(zerolog.InfoLevel, "sqlite validation failed. actual vs expected:", normalizedActual, normalizedExpected)
	}
	return ok
}

// ColumnCount accepts any types as long as the number of columns agrees
func ColumnCount(actual, expected string) bool {
	return len(actual) == len(expected)
}

// StrictColumns requires the type letters to match exactly
func StrictColumns(actual, expected string) bool {
	return actual == expected
}

// ForFile picks the value validator for a file. Files of the sqlite corpus
// use the forgiving policy when that corpus is included.
func ForFile(cfg *config.Config, relativePath string) Validator {
	if cfg.Flags.IncludeSqlite && strings.HasPrefix(relativePath, cfg.SqlitePrefix) {
		return Sqlite
	}
	return Strict
}

// ColumnsFor picks the column type validator for the configuration
func ColumnsFor(cfg *config.Config) ColumnValidator {
	if cfg.StrictColumnTypes {
		return StrictColumns
	}
	return ColumnCount
}

func normalizeAll(normalize Normalizer, lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = normalize(line)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// trace writes an index-aligned dump of both sides, up to the longer one
func trace(level zerolog.Level, header string, actual, expected []string) {
	if zerolog.GlobalLevel() > level {
		return
	}
	logger.WithLevel(level).Msg(header)
	n := max(len(actual), len(expected))
	for i := 0; i < n; i++ {
		logger.WithLevel(level).Msgf("[%d] %s<eol>", i, at(actual, i))
		logger.WithLevel(level).Msgf("[%d] %s<eol>", i, at(expected, i))
	}
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return noMoreResults
}
