// Package engine adapts SQL engines to the record-at-a-time execution model
// of script files. Each file gets its own isolated database context.
package engine

import (
	"context"

	"github.com/pkg/errors"

	"sltrun/internal/domain"
	"sltrun/internal/parser"
)

var (
	// ErrSkipFile is returned by NewDriver when a file cannot run in this
	// environment and must be skipped as a whole
	ErrSkipFile = errors.New("skip file")
	// ErrUnsupported is returned for engines that are unknown or not configured
	ErrUnsupported = errors.New("unsupported engine")
)

// ColumnType is the single-letter type code of a result column
type ColumnType byte

const (
	TypeInteger  ColumnType = 'I'
	TypeReal     ColumnType = 'R'
	TypeText     ColumnType = 'T'
	TypeBool     ColumnType = 'B'
	TypeDateTime ColumnType = 'D'
	TypeAny      ColumnType = '?'
)

// Output is the rendered result of one record
type Output struct {
	Types        []ColumnType
	Rows         [][]string
	RowsAffected int64
}

// TypeString joins the column type letters (e.g. "ITR")
func (o *Output) TypeString() string {
	b := make([]byte, len(o.Types))
	for i, t := range o.Types {
		b[i] = byte(t)
	}
	return string(b)
}

// Progress is advanced once per completed record
type Progress interface {
	Inc()
}

// Engine creates drivers bound to a fresh context per file. Name is the
// label used to evaluate skipif/onlyif conditions.
type Engine interface {
	Name() string
	NewDriver(ctx context.Context, file domain.TestFile, progress Progress) (Driver, error)
}

// Driver executes the records of one file in order
type Driver interface {
	Run(ctx context.Context, rec *parser.Record) (*Output, error)
	Close() error
}

// Service is a process-wide engine resource, started once before any file
// runs and stopped once after all files finish
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Track wraps a driver so progress advances after every Run call
func Track(d Driver, progress Progress) Driver {
	if progress == nil {
		return d
	}
	return &trackedDriver{Driver: d, progress: progress}
}

type trackedDriver struct {
	Driver
	progress Progress
}

func (t *trackedDriver) Run(ctx context.Context, rec *parser.Record) (*Output, error) {
	defer t.progress.Inc()
	return t.Driver.Run(ctx, rec)
}
