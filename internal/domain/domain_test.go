package domain

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTestFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		roots    []string
		expected string
	}{
		{
			name:     "strips first matching root",
			path:     filepath.Join("test_files", "joins", "inner.slt"),
			roots:    []string{"test_files", "testing/data"},
			expected: "joins/inner.slt",
		},
		{
			name:     "second root",
			path:     filepath.Join("testing", "data", "sqlite", "select1.slt"),
			roots:    []string{"test_files", filepath.Join("testing", "data")},
			expected: "sqlite/select1.slt",
		},
		{
			name:     "outside every root",
			path:     filepath.Join("elsewhere", "a.slt"),
			roots:    []string{"test_files"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTestFile(tt.path, tt.roots...)
			if f.RelativePath != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, f.RelativePath)
			}
			if f.Path != tt.path {
				t.Errorf("path should be kept as is, got %q", f.Path)
			}
		})
	}
}

func TestTestFile_Stem(t *testing.T) {
	f := TestFile{Path: "/x/test_files/copy.slt", RelativePath: "copy.slt"}
	if f.Stem() != "copy" {
		t.Errorf("expected stem copy, got %s", f.Stem())
	}
	if f.DisplayName() != "copy.slt" {
		t.Errorf("expected display name copy.slt, got %s", f.DisplayName())
	}
}

func TestRecordError_Error(t *testing.T) {
	err := &RecordError{
		Path:     "a.slt",
		Line:     7,
		Kind:     ErrQueryResultMismatch,
		SQL:      "SELECT a FROM t",
		Expected: []string{"1"},
		Actual:   []string{"2"},
	}

	msg := err.Error()
	for _, want := range []string{"a.slt:7: query result mismatch", "[SQL] SELECT a FROM t", "-1", "+2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestNewFailure(t *testing.T) {
	cause := errors.New("no such table: t")
	o := Outcome{
		File: TestFile{Path: "/x/a.slt", RelativePath: "a.slt"},
		Kind: OutcomeFailed,
		Err:  &RecordError{Path: "a.slt", Line: 3, Kind: ErrQueryFailed, SQL: "SELECT 1 FROM t", Cause: cause},
	}

	f := NewFailure(o)
	if f.Line != 3 || f.Kind != string(ErrQueryFailed) || f.Message != cause.Error() {
		t.Errorf("unexpected failure: %+v", f)
	}

	infra := NewFailure(Outcome{
		File: o.File,
		Kind: OutcomeInfrastructure,
		Err:  &InfrastructureError{Path: "a.slt", Cause: errors.New("boom")},
	})
	if infra.Kind != "infrastructure" {
		t.Errorf("expected infrastructure kind, got %s", infra.Kind)
	}
}
