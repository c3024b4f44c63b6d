package discovery

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sltrun/internal/config"
)

func newTestConfig(t *testing.T, flags config.Flags) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.PathsToIgnore = []string{"scratch"}
	cfg.Flags = flags
	return cfg
}

func TestDiscoverer_SubstringFilter(t *testing.T) {
	cfg := newTestConfig(t, config.Flags{Filters: []string{"foo"}})
	writeFiles(t, cfg.GetTestDir(), []string{"foo1.slt", "bar.slt", "foo2.slt"})

	files, err := NewDiscoverer(cfg).Discover(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"foo1.slt", "foo2.slt"}, relPaths(files))
}

func TestDiscoverer_Idempotent(t *testing.T) {
	cfg := newTestConfig(t, config.Flags{})
	writeFiles(t, cfg.GetTestDir(), []string{"a.slt", "nested/b.slt", "nested/deeper/c.slt", "scratch/a/x.slt"})

	d := NewDiscoverer(cfg)
	first, err := d.Discover(context.Background())
	require.NoError(t, err)
	second, err := d.Discover(context.Background())
	require.NoError(t, err)

	a, b := relPaths(first), relPaths(second)
	sort.Strings(a)
	sort.Strings(b)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"a.slt", "nested/b.slt", "nested/deeper/c.slt"}, a)
}

func TestDiscoverer_ExternalCorpus(t *testing.T) {
	cfg := newTestConfig(t, config.Flags{IncludeSqlite: true})
	writeFiles(t, cfg.GetTestDir(), []string{"local.slt"})
	writeFiles(t, cfg.GetExternalCorpusDir(), []string{"sqlite/select1.slt", "sqlite/index/between.slt", "other/skip.slt"})

	files, err := NewDiscoverer(cfg).Discover(context.Background())
	require.NoError(t, err)

	got := relPaths(files)
	require.Len(t, got, 3)
	assert.Equal(t, "local.slt", got[0], "test directory files come first")
	assert.ElementsMatch(t, []string{"sqlite/index/between.slt", "sqlite/select1.slt"}, got[1:])
	assert.Equal(t, filepath.Join(cfg.GetExternalCorpusDir(), "sqlite/select1.slt"), files[2].Path)
}

func TestDiscoverer_ExternalCorpusMissingIsFatal(t *testing.T) {
	cfg := newTestConfig(t, config.Flags{IncludeSqlite: true})
	writeFiles(t, cfg.GetTestDir(), []string{"local.slt"})

	_, err := NewDiscoverer(cfg).Discover(context.Background())
	assert.Error(t, err)
}

func TestDiscoverer_ExternalCorpusIgnoredByDefault(t *testing.T) {
	cfg := newTestConfig(t, config.Flags{})
	writeFiles(t, cfg.GetTestDir(), []string{"local.slt"})

	files, err := NewDiscoverer(cfg).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"local.slt"}, relPaths(files))
}
