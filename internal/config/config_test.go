package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfig_GetScratchDir(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		stem     string
		expected string
	}{
		{
			name:     "relative scratch dir",
			config:   &Config{ProjectPath: "/project", ScratchDir: "test_files/scratch"},
			stem:     "joins",
			expected: "/project/test_files/scratch/joins",
		},
		{
			name:     "absolute scratch dir",
			config:   &Config{ProjectPath: "/project", ScratchDir: "/tmp/scratch"},
			stem:     "joins",
			expected: "/tmp/scratch/joins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetScratchDir(tt.stem)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_CheckTestFile(t *testing.T) {
	tests := []struct {
		name     string
		filters  []string
		path     string
		expected bool
	}{
		{"no filters", nil, "aggregate.slt", true},
		{"matching filter", []string{"agg"}, "aggregate.slt", true},
		{"any filter matches", []string{"join", "agg"}, "aggregate.slt", true},
		{"no filter matches", []string{"join"}, "aggregate.slt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Flags.Filters = tt.filters
			if got := cfg.CheckTestFile(tt.path); got != tt.expected {
				t.Errorf("CheckTestFile(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestConfig_CheckCompatFile(t *testing.T) {
	tests := []struct {
		name          string
		reference     bool
		includeSqlite bool
		path          string
		expected      bool
	}{
		{"primary mode accepts all", false, false, "test_files/select.slt", true},
		{"reference mode rejects plain file", true, false, "test_files/select.slt", false},
		{"reference mode accepts compat file", true, false, "test_files/pg_compat/pg_compat_union.slt", true},
		{"reference mode rejects sqlite corpus when excluded", true, false, "testing/data/sqlite/select1.slt", false},
		{"reference mode accepts sqlite corpus when included", true, true, "testing/data/sqlite/select1.slt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Flags.ReferenceRunner = tt.reference
			cfg.Flags.IncludeSqlite = tt.includeSqlite
			if got := cfg.CheckCompatFile(tt.path); got != tt.expected {
				t.Errorf("CheckCompatFile(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestConfig_CorpusOptIn(t *testing.T) {
	cfg := New()
	if cfg.CheckSqlite("sqlite/select1.slt") {
		t.Error("sqlite corpus should be excluded by default")
	}
	if cfg.CheckLargeCorpus("tpch/q1.slt") {
		t.Error("large corpus should be excluded by default")
	}
	if !cfg.CheckSqlite("select.slt") || !cfg.CheckLargeCorpus("select.slt") {
		t.Error("ordinary files should pass both opt-in checks")
	}

	cfg.Flags.IncludeSqlite = true
	cfg.Flags.IncludeTPCH = true
	if !cfg.CheckSqlite("sqlite/select1.slt") || !cfg.CheckLargeCorpus("tpch/q1.slt") {
		t.Error("opted-in corpora should pass")
	}
}

func TestConfig_Parallelism(t *testing.T) {
	cfg := New()
	if got := cfg.Parallelism(); got != runtime.GOMAXPROCS(0) {
		t.Errorf("expected default parallelism %d, got %d", runtime.GOMAXPROCS(0), got)
	}
	cfg.Processors = 3
	if got := cfg.Parallelism(); got != 3 {
		t.Errorf("expected parallelism 3, got %d", got)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sltrun.yaml")
	content := `
test_dir: suites
engine: duckdb
reference: mysql
processors: 2
strict_column_types: true
prefixes:
  compat: compat_
required_fixtures:
  tpch: data/tpch/lineitem.tbl
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(EnvReference, "postgres")
	t.Setenv(EnvReferenceDSN, "postgres://localhost/slt")

	cfg, err := Load(Flags{ConfigFile: path, Processors: 5})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TestDir != "suites" {
		t.Errorf("expected test dir from file, got %s", cfg.TestDir)
	}
	if cfg.Engine != "duckdb" {
		t.Errorf("expected engine from file, got %s", cfg.Engine)
	}
	if cfg.Reference != "postgres" {
		t.Errorf("expected env to override file reference, got %s", cfg.Reference)
	}
	if cfg.ReferenceDSN != "postgres://localhost/slt" {
		t.Errorf("unexpected dsn %s", cfg.ReferenceDSN)
	}
	if cfg.Processors != 5 {
		t.Errorf("expected flag to override processors, got %d", cfg.Processors)
	}
	if !cfg.StrictColumnTypes {
		t.Error("expected strict column types from file")
	}
	if cfg.CompatFilePrefix != "compat_" {
		t.Errorf("unexpected compat prefix %s", cfg.CompatFilePrefix)
	}
	if cfg.SqlitePrefix != DefaultSqlitePrefix {
		t.Errorf("expected default sqlite prefix, got %s", cfg.SqlitePrefix)
	}
	if cfg.RequiredFixtures["tpch"] != "data/tpch/lineitem.tbl" {
		t.Errorf("unexpected fixtures %v", cfg.RequiredFixtures)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	if _, err := Load(Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv(EnvIncludeSqlite, "true")
	t.Setenv(EnvIncludeTPCH, "nope")
	if !EnvBool(EnvIncludeSqlite) {
		t.Error("expected true")
	}
	if EnvBool(EnvIncludeTPCH) {
		t.Error("invalid value should read as false")
	}
}

func TestConfig_WarnOnIgnored(t *testing.T) {
	cfg := New()
	cfg.Flags.Format = "json"
	cfg.Flags.ShowOutput = true

	var buf bytes.Buffer
	cfg.WarnOnIgnored(&buf)

	out := buf.String()
	if !strings.Contains(out, "--format") || !strings.Contains(out, "--show-output") {
		t.Errorf("missing warnings in %q", out)
	}
	if strings.Contains(out, "-Z") {
		t.Errorf("unexpected -Z warning in %q", out)
	}
}
