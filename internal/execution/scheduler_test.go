package execution

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sltrun/internal/domain"
	"sltrun/internal/engine"
)

type countingRunner struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	calls    atomic.Int64
}

func (r *countingRunner) Run(ctx context.Context, file domain.TestFile) error {
	r.calls.Add(1)
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		peak := r.peak.Load()
		if n <= peak || r.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return nil
}

type funcRunner func(ctx context.Context, file domain.TestFile) error

func (f funcRunner) Run(ctx context.Context, file domain.TestFile) error {
	return f(ctx, file)
}

func testFileSet(n int) []domain.TestFile {
	files := make([]domain.TestFile, n)
	for i := range files {
		name := fmt.Sprintf("file%02d.slt", i)
		files[i] = domain.TestFile{Path: "/tests/" + name, RelativePath: name}
	}
	return files
}

func TestScheduler_ConcurrencyBound(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 3)

	outcomes := s.Execute(context.Background(), testFileSet(24))

	assert.Len(t, outcomes, 24)
	assert.Equal(t, int64(24), runner.calls.Load())
	assert.LessOrEqual(t, runner.peak.Load(), int64(3))
	assert.GreaterOrEqual(t, runner.peak.Load(), int64(1))
}

func TestScheduler_DefaultParallelism(t *testing.T) {
	s := NewScheduler(&countingRunner{}, 0)
	assert.GreaterOrEqual(t, s.Parallelism(), 1)
}

func TestScheduler_Classification(t *testing.T) {
	recErr := &domain.RecordError{Path: "fail.slt", Line: 1, Kind: domain.ErrQueryFailed}
	runner := funcRunner(func(ctx context.Context, file domain.TestFile) error {
		switch file.RelativePath {
		case "fail.slt":
			return recErr
		case "skip.slt":
			return engine.ErrSkipFile
		case "harness.slt":
			return errors.New("parse error")
		case "panic.slt":
			panic("engine exploded")
		}
		return nil
	})

	files := []domain.TestFile{
		{Path: "/t/ok.slt", RelativePath: "ok.slt"},
		{Path: "/t/fail.slt", RelativePath: "fail.slt"},
		{Path: "/t/skip.slt", RelativePath: "skip.slt"},
		{Path: "/t/harness.slt", RelativePath: "harness.slt"},
		{Path: "/t/panic.slt", RelativePath: "panic.slt"},
	}

	outcomes := NewScheduler(runner, 2).Execute(context.Background(), files)
	require.Len(t, outcomes, len(files))

	byFile := make(map[string]domain.Outcome)
	for _, o := range outcomes {
		byFile[o.File.RelativePath] = o
	}

	assert.Equal(t, domain.OutcomeSuccess, byFile["ok.slt"].Kind)
	assert.NoError(t, byFile["ok.slt"].Err)

	assert.Equal(t, domain.OutcomeFailed, byFile["fail.slt"].Kind)
	assert.Same(t, recErr, byFile["fail.slt"].Err)

	assert.Equal(t, domain.OutcomeSkipped, byFile["skip.slt"].Kind)

	var infra *domain.InfrastructureError
	assert.Equal(t, domain.OutcomeInfrastructure, byFile["harness.slt"].Kind)
	require.True(t, errors.As(byFile["harness.slt"].Err, &infra))
	assert.False(t, infra.Crashed)

	assert.Equal(t, domain.OutcomeInfrastructure, byFile["panic.slt"].Kind)
	require.True(t, errors.As(byFile["panic.slt"].Err, &infra))
	assert.True(t, infra.Crashed)
	assert.Contains(t, infra.Error(), "engine exploded")
	assert.Contains(t, infra.Error(), "task for panic.slt crashed")
}

func TestScheduler_FailureIsolation(t *testing.T) {
	cfg := newTestConfig(t)
	failing := writeScript(t, cfg, "failing.slt", "query I\nselect 2\n----\n1\n")
	passing := writeScript(t, cfg, "passing.slt", passingScript)

	outcomes := NewScheduler(newSQLiteRunner(cfg, nil), 2).Execute(context.Background(), []domain.TestFile{failing, passing})
	require.Len(t, outcomes, 2)

	var failed []domain.Outcome
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, o)
			continue
		}
		assert.Equal(t, "passing.slt", o.File.RelativePath)
		assert.Equal(t, domain.OutcomeSuccess, o.Kind)
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "failing.slt", failed[0].File.RelativePath)
	assert.Equal(t, domain.OutcomeFailed, failed[0].Kind)
}
