package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestDir holds the script files, relative to the project
	DefaultTestDir = "test_files"
	// DefaultExternalCorpusDir is the shared cross-engine corpus checkout
	DefaultExternalCorpusDir = "testing/data"
	// DefaultScratchDir is the root of the per-file scratch directories
	DefaultScratchDir = "test_files/scratch"
	// DefaultFileExtension is the script file extension
	DefaultFileExtension = ".slt"
	// DefaultSqlitePrefix marks the cross-engine compatibility corpus
	DefaultSqlitePrefix = "sqlite"
	// DefaultLargeCorpusPrefix marks the large benchmark corpus
	DefaultLargeCorpusPrefix = "tpch"
	// DefaultCompatFilePrefix marks files runnable against the reference engine
	DefaultCompatFilePrefix = "pg_compat_"
	// DefaultEngine is the primary engine under test
	DefaultEngine = "sqlite"
	// DefaultReference is the reference engine used in compatibility mode
	DefaultReference = "postgres"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "slt-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultConfigFile is read when present and no --config is given
	DefaultConfigFile = "sltrun.yaml"
	// DefaultLogLevel keeps diagnostics quiet unless asked for
	DefaultLogLevel = "error"
)

// Environment variables bound to options
const (
	EnvReferenceRunner = "PG_COMPAT"
	EnvIncludeSqlite   = "INCLUDE_SQLITE"
	EnvIncludeTPCH     = "INCLUDE_TPCH"
	EnvEngine          = "SLT_ENGINE"
	EnvReference       = "SLT_REFERENCE"
	EnvReferenceDSN    = "SLT_REFERENCE_DSN"
	EnvLogLevel        = "SLT_LOG"
)
