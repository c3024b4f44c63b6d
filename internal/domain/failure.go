package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ErrorKind describes why a record failed
type ErrorKind string

const (
	ErrStatementFailed            ErrorKind = "statement failed"
	ErrStatementUnexpectedSuccess ErrorKind = "statement is expected to fail, but actually succeeded"
	ErrStatementErrorMismatch     ErrorKind = "statement error message mismatch"
	ErrStatementCountMismatch     ErrorKind = "statement affected row count mismatch"
	ErrQueryFailed                ErrorKind = "query failed"
	ErrQueryUnexpectedSuccess     ErrorKind = "query is expected to fail, but actually succeeded"
	ErrQueryErrorMismatch         ErrorKind = "query error message mismatch"
	ErrQueryResultMismatch        ErrorKind = "query result mismatch"
	ErrColumnTypeMismatch         ErrorKind = "query column type mismatch"
	ErrQueryNoColumns             ErrorKind = "query returned no columns"
	ErrUnwritableResult           ErrorKind = "query result cannot be written as expected output"
)

// RecordError is the failure of one record inside a script file. It ends the
// run of that file.
type RecordError struct {
	Path          string
	Line          int
	Kind          ErrorKind
	SQL           string
	Expected      []string
	Actual        []string
	ExpectedError string
	Cause         error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s", e.Path, e.Line, e.Kind)
	if e.SQL != "" {
		fmt.Fprintf(&b, "\n[SQL] %s", e.SQL)
	}
	if e.ExpectedError != "" {
		fmt.Fprintf(&b, "\n[Expected error] %s", e.ExpectedError)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n[Error] %v", e.Cause)
	}
	if e.Kind == ErrQueryResultMismatch || e.Kind == ErrColumnTypeMismatch {
		fmt.Fprintf(&b, "\n[Diff] (-expected|+actual)\n%s", Diff(e.Expected, e.Actual))
	}
	return b.String()
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// Diff renders a unified diff between expected and actual lines
func Diff(expected, actual []string) string {
	diff := difflib.UnifiedDiff{
		A:        withNewlines(expected),
		B:        withNewlines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("<diff unavailable: %v>", err)
	}
	return strings.TrimRight(text, "\n")
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

// InfrastructureError wraps a harness-level failure of the task running a
// file: a crash, or an error outside any record (parse, scratch, engine setup)
type InfrastructureError struct {
	Path    string
	Cause   error
	Crashed bool
}

func (e *InfrastructureError) Error() string {
	if e.Crashed {
		return fmt.Sprintf("External error: task for %s crashed: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("External error: %s: %v", e.Path, e.Cause)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Cause
}

// Failure represents a failed test file in the persisted results
type Failure struct {
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Kind     string   `json:"kind"`
	SQL      string   `json:"sql,omitempty"`
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Actual   []string `json:"actual,omitempty"`
	Resolved bool     `json:"resolved,omitempty"` // Track if failure is marked as resolved
}

// NewFailure converts a failed outcome into its persisted form
func NewFailure(o Outcome) Failure {
	f := Failure{
		File:    o.File.DisplayName(),
		Kind:    o.Kind.String(),
		Message: fmt.Sprint(o.Err),
	}

	var recErr *RecordError
	if errors.As(o.Err, &recErr) {
		f.Line = recErr.Line
		f.Kind = string(recErr.Kind)
		f.SQL = recErr.SQL
		f.Expected = recErr.Expected
		f.Actual = recErr.Actual
		if recErr.Cause != nil {
			f.Message = recErr.Cause.Error()
		} else {
			f.Message = string(recErr.Kind)
		}
	}
	return f
}
