package execution

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sltrun/internal/config"
	"sltrun/internal/domain"
	"sltrun/internal/engine"
	"sltrun/internal/parser"
	"sltrun/internal/validate"
)

// fileState carries the per-file settings that control records change while
// a file runs
type fileState struct {
	file      domain.TestFile
	label     string
	scratch   string
	sortMode  parser.SortMode
	threshold int
	validator validate.Validator
	columns   validate.ColumnValidator
}

func newFileState(cfg *config.Config, file domain.TestFile, label, scratch string) *fileState {
	return &fileState{
		file:      file,
		label:     label,
		scratch:   scratch,
		sortMode:  parser.NoSort,
		validator: validate.ForFile(cfg, file.RelativePath),
		columns:   validate.ColumnsFor(cfg),
	}
}

// apply updates the state for control records and reports a halt
func (s *fileState) apply(rec *parser.Record) bool {
	switch rec.Kind {
	case parser.KindHalt:
		return true
	case parser.KindHashThreshold:
		s.threshold = rec.Threshold
	case parser.KindSortMode:
		s.sortMode = rec.SortMode
	}
	return false
}

// prepare substitutes the scratch directory into the record's SQL
func (s *fileState) prepare(rec *parser.Record) *parser.Record {
	if !strings.Contains(rec.SQL, testDirPlaceholder) {
		return rec
	}
	cp := *rec
	cp.SQL = strings.ReplaceAll(rec.SQL, testDirPlaceholder, s.scratch)
	return &cp
}

func (s *fileState) modeOf(rec *parser.Record) parser.SortMode {
	if rec.SortMode != parser.SortDefault {
		return rec.SortMode
	}
	return s.sortMode
}

// shape applies the sort mode and the hash threshold to actual rows
func (s *fileState) shape(rec *parser.Record, rows [][]string) [][]string {
	switch s.modeOf(rec) {
	case parser.RowSort:
		sorted := make([][]string, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.Join(sorted[i], " ") < strings.Join(sorted[j], " ")
		})
		rows = sorted
	case parser.ValueSort:
		values := flatten(rows)
		sort.Strings(values)
		rows = make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{v}
		}
	}

	if s.threshold > 0 {
		if values := flatten(rows); len(values) > s.threshold {
			return [][]string{{hashValues(values)}}
		}
	}
	return rows
}

// expected returns the record's expected lines, sorted when the sort mode
// makes row order irrelevant
func (s *fileState) expected(rec *parser.Record) []string {
	switch s.modeOf(rec) {
	case parser.RowSort, parser.ValueSort:
		if len(rec.Results) == 1 && strings.Contains(rec.Results[0], " values hashing to ") {
			return rec.Results
		}
		sorted := append([]string(nil), rec.Results...)
		sort.Strings(sorted)
		return sorted
	}
	return rec.Results
}

// check validates one executed record and returns its failure, if any
func (s *fileState) check(rec *parser.Record, out *engine.Output, err error) error {
	fail := func(kind domain.ErrorKind) *domain.RecordError {
		return &domain.RecordError{
			Path: s.file.DisplayName(),
			Line: rec.Line,
			Kind: kind,
			SQL:  rec.SQL,
		}
	}

	isQuery := rec.Kind == parser.KindQuery
	if rec.ExpectError {
		if err == nil {
			kind := domain.ErrStatementUnexpectedSuccess
			if isQuery {
				kind = domain.ErrQueryUnexpectedSuccess
			}
			f := fail(kind)
			f.ExpectedError = rec.ErrorPattern
			return f
		}
		if !matchError(rec.ErrorPattern, err) {
			kind := domain.ErrStatementErrorMismatch
			if isQuery {
				kind = domain.ErrQueryErrorMismatch
			}
			f := fail(kind)
			f.ExpectedError = rec.ErrorPattern
			f.Cause = err
			return f
		}
		return nil
	}

	if err != nil {
		kind := domain.ErrStatementFailed
		if isQuery {
			kind = domain.ErrQueryFailed
		}
		f := fail(kind)
		f.Cause = err
		return f
	}

	if !isQuery {
		if rec.ExpectCount && out.RowsAffected != rec.Count {
			f := fail(domain.ErrStatementCountMismatch)
			f.Expected = []string{strconv.FormatInt(rec.Count, 10)}
			f.Actual = []string{strconv.FormatInt(out.RowsAffected, 10)}
			return f
		}
		return nil
	}

	if actualTypes := typeLetters(out); rec.Types != "" && !s.columns(actualTypes, rec.Types) {
		f := fail(domain.ErrColumnTypeMismatch)
		f.Expected = []string{rec.Types}
		f.Actual = []string{actualTypes}
		return f
	}

	rows := s.shape(rec, out.Rows)
	expected := s.expected(rec)
	if !s.validator(validate.TrimEnd, rows, expected) {
		f := fail(domain.ErrQueryResultMismatch)
		f.Expected = expected
		f.Actual = resultLines(rows)
		return f
	}
	return nil
}

// complete rewrites a record's expectations from its actual output. Output
// that cannot be written back as script text fails the record.
func (s *fileState) complete(rec *parser.Record, out *engine.Output, err error) error {
	if err != nil {
		if !rec.ExpectError || !matchError(rec.ErrorPattern, err) {
			rec.ErrorPattern = errorPattern(err)
		}
		rec.ExpectError = true
		rec.ExpectCount = false
		rec.Results = nil
		return nil
	}

	if rec.Kind == parser.KindStatement {
		rec.ExpectError = false
		rec.ErrorPattern = ""
		if rec.ExpectCount {
			rec.Count = out.RowsAffected
		}
		return nil
	}

	actualTypes := typeLetters(out)
	if actualTypes == "" {
		return &domain.RecordError{
			Path: s.file.DisplayName(),
			Line: rec.Line,
			Kind: domain.ErrQueryNoColumns,
			SQL:  rec.SQL,
		}
	}
	lines := resultLines(s.shape(rec, out.Rows))
	for _, line := range lines {
		if line == "" || strings.ContainsAny(line, "\r\n") {
			return &domain.RecordError{
				Path:   s.file.DisplayName(),
				Line:   rec.Line,
				Kind:   domain.ErrUnwritableResult,
				SQL:    rec.SQL,
				Actual: []string{strconv.Quote(line)},
			}
		}
	}

	rec.ExpectError = false
	rec.ErrorPattern = ""
	if rec.Types == "" || !s.columns(actualTypes, rec.Types) {
		rec.Types = actualTypes
	}
	rec.Results = lines
	return nil
}

// typeLetters returns the output's column types, unknown types written as text
func typeLetters(out *engine.Output) string {
	return strings.Map(func(r rune) rune {
		if r == rune(engine.TypeAny) {
			return rune(engine.TypeText)
		}
		return r
	}, out.TypeString())
}

// resultLines renders rows the way expected results are written
func resultLines(rows [][]string) []string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = validate.TrimEnd(strings.Join(row, " "))
	}
	return lines
}

func flatten(rows [][]string) []string {
	var values []string
	for _, row := range rows {
		values = append(values, row...)
	}
	return values
}

// hashValues summarizes values as "<n> values hashing to <md5>"
func hashValues(values []string) string {
	h := md5.New()
	for _, v := range values {
		h.Write([]byte(v))
		h.Write([]byte("\n"))
	}
	return fmt.Sprintf("%d values hashing to %s", len(values), hex.EncodeToString(h.Sum(nil)))
}

// matchError reports whether err satisfies an expected error pattern. An
// empty pattern accepts any error, an invalid regexp falls back to a
// substring match.
func matchError(pattern string, err error) bool {
	if pattern == "" {
		return true
	}
	re, rerr := regexp.Compile(pattern)
	if rerr != nil {
		return strings.Contains(err.Error(), pattern)
	}
	return re.MatchString(err.Error())
}

// errorPattern quotes the first line of an error message as a pattern
func errorPattern(err error) string {
	return regexp.QuoteMeta(firstLine(err.Error()))
}
