// Package report aggregates per-file outcomes into the final verdict of a run
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"sltrun/internal/domain"
	"sltrun/internal/exitcodes"
)

// Aggregator collects the failures of all files. It is the only place that
// decides whether a run failed.
type Aggregator struct {
	failures *multierror.Error
	passed   int
	skipped  int
}

// NewAggregator creates an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Collect records outcomes. Failures are kept in file order so the report
// does not depend on completion order.
func (a *Aggregator) Collect(outcomes []domain.Outcome) {
	sorted := append([]domain.Outcome(nil), outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].File.DisplayName() < sorted[j].File.DisplayName()
	})

	for _, o := range sorted {
		switch {
		case o.Failed():
			a.failures = multierror.Append(a.failures, o.Err)
		case o.Kind == domain.OutcomeSkipped:
			a.skipped++
		default:
			a.passed++
		}
	}
}

// Failures returns the collected failures
func (a *Aggregator) Failures() []error {
	if a.failures == nil {
		return nil
	}
	return a.failures.Errors
}

// Print writes one block per failure followed by a summary line
func (a *Aggregator) Print(w io.Writer) {
	failures := a.Failures()
	for _, err := range failures {
		fmt.Fprintln(w, color.RedString("%v", err))
		fmt.Fprintln(w)
	}

	summary := fmt.Sprintf("%d passed, %d skipped, %d failed", a.passed, a.skipped, len(failures))
	if len(failures) > 0 {
		fmt.Fprintln(w, color.RedString("%s", summary))
		return
	}
	fmt.Fprintln(w, color.GreenString("%s", summary))
}

// Err returns nil when no file failed, otherwise an error carrying the
// failure count and the test failure exit code
func (a *Aggregator) Err() error {
	n := len(a.Failures())
	if n == 0 {
		return nil
	}
	return &exitcodes.Error{
		Code: exitcodes.TestFailure,
		Err:  fmt.Errorf("%d failures", n),
	}
}
