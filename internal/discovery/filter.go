package discovery

import (
	"path/filepath"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// Filter applies the selection options to discovered files
type Filter struct {
	cfg *config.Config
}

// NewFilter creates a new Filter
func NewFilter(cfg *config.Config) *Filter {
	return &Filter{cfg: cfg}
}

// Match reports whether a file is selected. The checks run in a fixed order:
// substring filters, extension, large corpus opt-in, sqlite corpus opt-in and
// finally the compatibility restriction. External corpus files are not
// subject to the large corpus check.
func (f *Filter) Match(file domain.TestFile, external bool) bool {
	if !f.cfg.CheckTestFile(file.RelativePath) {
		return false
	}
	if filepath.Ext(file.Path) != f.cfg.FileExtension {
		return false
	}
	if !external && !f.cfg.CheckLargeCorpus(file.RelativePath) {
		return false
	}
	if !f.cfg.CheckSqlite(file.RelativePath) {
		return false
	}
	return f.cfg.CheckCompatFile(file.Path)
}

// Apply keeps the matching files, preserving order
func (f *Filter) Apply(files []domain.TestFile, external bool) []domain.TestFile {
	var filtered []domain.TestFile
	for _, file := range files {
		if f.Match(file, external) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}
