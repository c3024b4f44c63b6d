package discovery

import (
	"context"

	logger "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// Discoverer produces the ordered list of files to run
type Discoverer struct {
	cfg     *config.Config
	scanner *Scanner
	filter  *Filter
}

// NewDiscoverer creates a Discoverer for the configured directories
func NewDiscoverer(cfg *config.Config) *Discoverer {
	return &Discoverer{
		cfg:     cfg,
		scanner: NewScanner(cfg.PathsToIgnore),
		filter:  NewFilter(cfg),
	}
}

// Discover scans the test directory and, when the sqlite corpus is included,
// the external corpus directory. External files follow the test directory
// files. The first scan error is returned.
func (d *Discoverer) Discover(ctx context.Context) ([]domain.TestFile, error) {
	testDir := d.cfg.GetTestDir()
	externalDir := d.cfg.GetExternalCorpusDir()
	includeExternal := d.cfg.Flags.IncludeSqlite

	var local, external []string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := d.scanner.Scan(testDir)
		local = files
		return err
	})
	if includeExternal {
		g.Go(func() error {
			files, err := d.scanner.Scan(externalDir)
			external = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	selected := d.filter.Apply(toTestFiles(local, testDir, externalDir), false)
	if includeExternal {
		selected = append(selected, d.filter.Apply(toTestFiles(external, testDir, externalDir), true)...)
	}

	logger.Debug().
		Int("scanned", len(local)+len(external)).
		Int("selected", len(selected)).
		Msg("discovered test files")

	return selected, nil
}

func toTestFiles(paths []string, roots ...string) []domain.TestFile {
	files := make([]domain.TestFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, domain.NewTestFile(path, roots...))
	}
	return files
}
