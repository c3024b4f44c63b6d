package storage

import (
	"time"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// RunInfo describes the run whose outcomes are saved
type RunInfo struct {
	Mode      string
	Engine    string
	Reference string
	Duration  time.Duration
	Workers   int
}

// Storage persists and loads test run results (e.g. for the failures viewer).
type Storage interface {
	Save(outcomes []domain.Outcome, run RunInfo) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
