package execution

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sltrun/internal/config"
	"sltrun/internal/domain"
	"sltrun/internal/engine"
	"sltrun/internal/parser"
	"sltrun/internal/ui"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return cfg
}

func writeScript(t *testing.T, cfg *config.Config, name, content string) domain.TestFile {
	t.Helper()
	path := filepath.Join(cfg.GetTestDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return domain.NewTestFile(path, cfg.GetTestDir())
}

func readScript(t *testing.T, file domain.TestFile) string {
	t.Helper()
	data, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	return string(data)
}

func newSQLiteRunner(cfg *config.Config, reference engine.Engine) *Runner {
	return NewRunner(cfg, engine.NewSQLite(cfg), reference, ui.NewMultiProgress(io.Discard, false))
}

type fakeResult struct {
	out *engine.Output
	err error
}

// fakeEngine wraps an engine under another label and overrides the result
// of selected SQL texts
type fakeEngine struct {
	name      string
	base      engine.Engine
	overrides map[string]fakeResult
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) NewDriver(ctx context.Context, file domain.TestFile, progress engine.Progress) (engine.Driver, error) {
	d, err := f.base.NewDriver(ctx, file, progress)
	if err != nil {
		return nil, err
	}
	return &fakeDriver{Driver: d, overrides: f.overrides}, nil
}

type fakeDriver struct {
	engine.Driver
	overrides map[string]fakeResult
}

func (d *fakeDriver) Run(ctx context.Context, rec *parser.Record) (*engine.Output, error) {
	if r, ok := d.overrides[rec.SQL]; ok {
		return r.out, r.err
	}
	return d.Driver.Run(ctx, rec)
}
