package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath       string
	TestDir           string
	ExternalCorpusDir string
	ScratchDir        string

	// Selection settings
	FileExtension     string
	SqlitePrefix      string
	LargeCorpusPrefix string
	CompatFilePrefix  string
	PathsToIgnore     []string

	// Engine settings
	Engine            string
	Reference         string
	ReferenceDSN      string
	StrictColumnTypes bool
	// RequiredFixtures maps relative path prefixes to paths that must exist
	// for matching files to run
	RequiredFixtures map[string]string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	LogLevel       string

	// Execution settings
	Processors int

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Complete        bool
	ReferenceRunner bool
	IncludeSqlite   bool
	IncludeTPCH     bool
	Filters         []string
	Processors      int
	Engine          string
	Reference       string
	ConfigFile      string
	LogLevel        string
	NoSave          bool
	TestCases       bool

	// Accepted for compatibility with test-runner style invocations, ignored
	Format     string
	ZOptions   string
	ShowOutput bool
	Ignored    bool
	List       bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:       DefaultProjectPath,
		TestDir:           DefaultTestDir,
		ExternalCorpusDir: DefaultExternalCorpusDir,
		ScratchDir:        DefaultScratchDir,
		FileExtension:     DefaultFileExtension,
		SqlitePrefix:      DefaultSqlitePrefix,
		LargeCorpusPrefix: DefaultLargeCorpusPrefix,
		CompatFilePrefix:  DefaultCompatFilePrefix,
		Engine:            DefaultEngine,
		Reference:         DefaultReference,
		OutputJSONFile:    DefaultOutputJSONFile,
		OutputJSONDir:     DefaultOutputJSONDir,
		LogLevel:          DefaultLogLevel,
		RequiredFixtures:  map[string]string{},
	}
	return cfg
}

// Load creates a config from defaults, the config file, the environment and flags,
// in increasing order of precedence
func Load(flags Flags) (*Config, error) {
	cfg := New()

	path := flags.ConfigFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Flags = flags

	// Apply flag overrides
	if flags.Processors > 0 {
		cfg.Processors = flags.Processors
	}
	if flags.Engine != "" {
		cfg.Engine = flags.Engine
	}
	if flags.Reference != "" {
		cfg.Reference = flags.Reference
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEngine); v != "" {
		c.Engine = v
	}
	if v := os.Getenv(EnvReference); v != "" {
		c.Reference = v
	}
	if v := os.Getenv(EnvReferenceDSN); v != "" {
		c.ReferenceDSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// LoadDotEnv loads a .env file from the project directory into the process
// environment. A missing file is not an error.
func LoadDotEnv(projectPath string) {
	envPath := filepath.Join(projectPath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}
}

// EnvBool reads a boolean environment variable, false when unset or invalid
func EnvBool(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return err == nil && v
}

// ResolvePath resolves a path against the project directory
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectPath, path)
}

// GetTestDir returns the directory holding the script files
func (c *Config) GetTestDir() string {
	return c.ResolvePath(c.TestDir)
}

// GetExternalCorpusDir returns the directory of the shared cross-engine corpus
func (c *Config) GetExternalCorpusDir() string {
	return c.ResolvePath(c.ExternalCorpusDir)
}

// GetScratchDir returns the scratch directory for a file stem
func (c *Config) GetScratchDir(stem string) string {
	return filepath.Join(c.ResolvePath(c.ScratchDir), stem)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Parallelism returns the bound on concurrently running files
func (c *Config) Parallelism() int {
	if c.Processors > 0 {
		return c.Processors
	}
	return runtime.GOMAXPROCS(0)
}

// Mode names the run mode for reports
func (c *Config) Mode() string {
	if c.Flags.Complete {
		return "complete"
	}
	return "compare"
}

// CheckTestFile treats the positional arguments as substring filters on the
// relative path. No filters selects everything.
func (c *Config) CheckTestFile(relativePath string) bool {
	if len(c.Flags.Filters) == 0 {
		return true
	}
	for _, filter := range c.Flags.Filters {
		if strings.Contains(relativePath, filter) {
			return true
		}
	}
	return false
}

// CheckSqlite excludes the cross-engine corpus unless it was opted in
func (c *Config) CheckSqlite(relativePath string) bool {
	if !strings.HasPrefix(relativePath, c.SqlitePrefix) {
		return true
	}
	return c.Flags.IncludeSqlite
}

// CheckLargeCorpus excludes the large benchmark corpus unless it was opted in
func (c *Config) CheckLargeCorpus(relativePath string) bool {
	if !strings.HasPrefix(relativePath, c.LargeCorpusPrefix) {
		return true
	}
	return c.Flags.IncludeTPCH
}

// CheckCompatFile restricts the reference runner to files named with the
// compatibility prefix, or to the cross-engine corpus when it is included
func (c *Config) CheckCompatFile(path string) bool {
	return !c.Flags.ReferenceRunner ||
		strings.HasPrefix(filepath.Base(path), c.CompatFilePrefix) ||
		(c.Flags.IncludeSqlite && strings.Contains(filepath.ToSlash(path), c.SqlitePrefix))
}

// WarnOnIgnored writes a warning for every compatibility option that was passed
func (c *Config) WarnOnIgnored(w io.Writer) {
	if c.Flags.Format != "" {
		fmt.Fprintln(w, "WARNING: Ignoring `--format` compatibility option")
	}
	if c.Flags.ZOptions != "" {
		fmt.Fprintln(w, "WARNING: Ignoring `-Z` compatibility option")
	}
	if c.Flags.ShowOutput {
		fmt.Fprintln(w, "WARNING: Ignoring `--show-output` compatibility option")
	}
	if c.Flags.Ignored {
		fmt.Fprintln(w, "WARNING: Ignoring `--ignored` compatibility option")
	}
}
