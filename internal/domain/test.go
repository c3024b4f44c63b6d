package domain

import (
	"path/filepath"
	"strings"
)

// TestFile is one script file selected for execution
type TestFile struct {
	Path         string // Path to the file as discovered
	RelativePath string // Path relative to its root, used for display, filtering and categories
}

// NewTestFile builds a TestFile, stripping the first root that contains path.
// RelativePath is empty when path is outside every root.
func NewTestFile(path string, roots ...string) TestFile {
	for _, root := range roots {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return TestFile{Path: path, RelativePath: filepath.ToSlash(rel)}
	}
	return TestFile{Path: path}
}

// FileName returns the base name of the file
func (f TestFile) FileName() string {
	return filepath.Base(f.Path)
}

// Stem returns the base name without extension (copy.slt -> copy)
func (f TestFile) Stem() string {
	name := f.FileName()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DisplayName returns the relative path, falling back to the full path
func (f TestFile) DisplayName() string {
	if f.RelativePath != "" {
		return f.RelativePath
	}
	return f.Path
}
