package execution

import (
	"context"
	"errors"
	"runtime"
	"time"

	logger "github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"sltrun/internal/domain"
	"sltrun/internal/engine"
)

// FileRunner runs a single file
type FileRunner interface {
	Run(ctx context.Context, file domain.TestFile) error
}

// Scheduler runs files concurrently with a bound on in-flight files. A
// failing file never cancels the others.
type Scheduler struct {
	runner      FileRunner
	parallelism int
}

// NewScheduler creates a Scheduler. A parallelism below one uses
// GOMAXPROCS.
func NewScheduler(runner FileRunner, parallelism int) *Scheduler {
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{runner: runner, parallelism: parallelism}
}

// Parallelism returns the bound on concurrently running files
func (s *Scheduler) Parallelism() int {
	return s.parallelism
}

// Execute runs every file and returns one outcome per file in completion
// order
func (s *Scheduler) Execute(ctx context.Context, files []domain.TestFile) []domain.Outcome {
	p := pool.NewWithResults[domain.Outcome]().WithMaxGoroutines(s.parallelism)
	for _, file := range files {
		file := file
		p.Go(func() domain.Outcome {
			return s.runOne(ctx, file)
		})
	}
	return p.Wait()
}

// runOne runs a file and classifies its result. Panics are caught here so a
// crashing file is reported as an infrastructure failure.
func (s *Scheduler) runOne(ctx context.Context, file domain.TestFile) domain.Outcome {
	start := time.Now()

	var err error
	var catcher panics.Catcher
	catcher.Try(func() {
		err = s.runner.Run(ctx, file)
	})

	outcome := domain.Outcome{File: file, Duration: time.Since(start)}
	if recovered := catcher.Recovered(); recovered != nil {
		outcome.Kind = domain.OutcomeInfrastructure
		outcome.Err = &domain.InfrastructureError{Path: file.DisplayName(), Cause: recovered.AsError(), Crashed: true}
		logger.Error().Str("file", file.DisplayName()).Err(outcome.Err).Msg("task crashed")
		return outcome
	}

	outcome.Kind, outcome.Err = classify(file, err)
	logger.Debug().
		Str("file", file.DisplayName()).
		Str("outcome", outcome.Kind.String()).
		Dur("duration", outcome.Duration).
		Msg("file finished")
	return outcome
}

func classify(file domain.TestFile, err error) (domain.OutcomeKind, error) {
	if err == nil {
		return domain.OutcomeSuccess, nil
	}
	if errors.Is(err, engine.ErrSkipFile) {
		return domain.OutcomeSkipped, nil
	}
	var recErr *domain.RecordError
	if errors.As(err, &recErr) {
		return domain.OutcomeFailed, err
	}
	return domain.OutcomeInfrastructure, &domain.InfrastructureError{Path: file.DisplayName(), Cause: err}
}
