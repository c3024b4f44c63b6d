package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sltrun/internal/domain"
	"sltrun/internal/exitcodes"
)

func init() {
	color.NoColor = true
}

func outcome(name string, kind domain.OutcomeKind, err error) domain.Outcome {
	return domain.Outcome{File: domain.TestFile{Path: "/t/" + name, RelativePath: name}, Kind: kind, Err: err}
}

func TestAggregator_NoFailures(t *testing.T) {
	a := NewAggregator()
	a.Collect([]domain.Outcome{
		outcome("a.slt", domain.OutcomeSuccess, nil),
		outcome("b.slt", domain.OutcomeSkipped, nil),
	})

	assert.NoError(t, a.Err())
	assert.Empty(t, a.Failures())

	var buf bytes.Buffer
	a.Print(&buf)
	assert.Equal(t, "1 passed, 1 skipped, 0 failed\n", buf.String())
}

func TestAggregator_Failures(t *testing.T) {
	a := NewAggregator()
	a.Collect([]domain.Outcome{
		outcome("z.slt", domain.OutcomeFailed, errors.New("z.slt:3: query result mismatch")),
		outcome("a.slt", domain.OutcomeSuccess, nil),
		outcome("m.slt", domain.OutcomeInfrastructure, &domain.InfrastructureError{Path: "m.slt", Cause: errors.New("boom"), Crashed: true}),
	})

	failures := a.Failures()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Error(), "m.slt")
	assert.Contains(t, failures[1].Error(), "z.slt")

	err := a.Err()
	require.Error(t, err)
	assert.Equal(t, "2 failures", err.Error())
	assert.Equal(t, exitcodes.TestFailure, exitcodes.FromError(err))

	var buf bytes.Buffer
	a.Print(&buf)
	out := buf.String()
	assert.True(t, strings.Index(out, "m.slt") < strings.Index(out, "z.slt"))
	assert.Contains(t, out, "External error: task for m.slt crashed: boom")
	assert.True(t, strings.HasSuffix(out, "1 passed, 0 skipped, 2 failed\n"))
}
