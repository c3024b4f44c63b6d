package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sltrun/internal/domain"
)

// Summarize builds the persisted form of a run's outcomes
func Summarize(outcomes []domain.Outcome, run RunInfo) *domain.TestResultsOutput {
	meta := domain.TestResultsMeta{
		RunID:           uuid.NewString(),
		Mode:            run.Mode,
		Engine:          run.Engine,
		Reference:       run.Reference,
		TotalTestFiles:  len(outcomes),
		Duration:        run.Duration.String(),
		DurationSeconds: run.Duration.Seconds(),
		Workers:         run.Workers,
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	details := []domain.Failure{}
	for _, o := range outcomes {
		switch o.Kind {
		case domain.OutcomeSuccess:
			meta.PassedTestFiles++
		case domain.OutcomeSkipped:
			meta.SkippedTestFiles++
		case domain.OutcomeFailed:
			meta.FailedTestFiles++
			details = append(details, domain.NewFailure(o))
		case domain.OutcomeInfrastructure:
			meta.InfrastructureFailures++
			details = append(details, domain.NewFailure(o))
		}
	}

	return &domain.TestResultsOutput{Meta: meta, Details: details}
}

// Save writes the run's outcomes to the configured JSON output file.
func (s *JSONStorage) Save(outcomes []domain.Outcome, run RunInfo) (*domain.TestResultsOutput, error) {
	output := Summarize(outcomes, run)
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
