package domain

import (
	"fmt"
	"time"
)

// OutcomeKind classifies how a file run ended
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkipped
	// OutcomeFailed is a validation mismatch or record execution error
	OutcomeFailed
	// OutcomeInfrastructure means the task crashed or the harness failed around the file
	OutcomeInfrastructure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeInfrastructure:
		return "infrastructure"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of running a single test file
type Outcome struct {
	File     TestFile
	Kind     OutcomeKind
	Err      error
	Duration time.Duration
}

// Failed reports whether the outcome counts as a harness failure
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeFailed || o.Kind == OutcomeInfrastructure
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID                  string  `json:"run_id"`
	Mode                   string  `json:"mode"`
	Engine                 string  `json:"engine"`
	Reference              string  `json:"reference,omitempty"`
	TotalTestFiles         int     `json:"total_test_files"`
	PassedTestFiles        int     `json:"passed_test_files"`
	FailedTestFiles        int     `json:"failed_test_files"`
	SkippedTestFiles       int     `json:"skipped_test_files"`
	InfrastructureFailures int     `json:"infrastructure_failures"`
	Duration               string  `json:"duration"`
	DurationSeconds        float64 `json:"duration_seconds"`
	Workers                int     `json:"workers"`
	Timestamp              string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []Failure       `json:"details"`
}
