package cli

import (
	"github.com/spf13/cobra"

	"sltrun/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Complete        bool
	ReferenceRunner bool
	IncludeSqlite   bool
	IncludeTPCH     bool
	Processors      int
	Engine          string
	Reference       string
	ConfigFile      string
	LogLevel        string
	NoSave          bool
	TestCases       bool

	// Compatibility options, accepted and ignored
	Format     string
	ZOptions   string
	ShowOutput bool
	Ignored    bool
	List       bool
}

// ToConfigFlags converts CLI flags to config flags. Positional arguments are substring filters.
func (f *Flags) ToConfigFlags(args []string) config.Flags {
	return config.Flags{
		Complete:        f.Complete,
		ReferenceRunner: f.ReferenceRunner,
		IncludeSqlite:   f.IncludeSqlite,
		IncludeTPCH:     f.IncludeTPCH,
		Filters:         args,
		Processors:      f.Processors,
		Engine:          f.Engine,
		Reference:       f.Reference,
		ConfigFile:      f.ConfigFile,
		LogLevel:        f.LogLevel,
		NoSave:          f.NoSave,
		TestCases:       f.TestCases,
		Format:          f.Format,
		ZOptions:        f.ZOptions,
		ShowOutput:      f.ShowOutput,
		Ignored:         f.Ignored,
		List:            f.List,
	}
}

// BindSelection registers the flags shared by every command that selects files
func (f *Flags) BindSelection(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.ReferenceRunner, "postgres-runner", config.EnvBool(config.EnvReferenceRunner), "Run compatibility files against the reference engine (env "+config.EnvReferenceRunner+")")
	cmd.Flags().BoolVar(&f.IncludeSqlite, "include-sqlite", config.EnvBool(config.EnvIncludeSqlite), "Include the cross-engine sqlite corpus (env "+config.EnvIncludeSqlite+")")
	cmd.Flags().BoolVar(&f.IncludeTPCH, "include-tpch", config.EnvBool(config.EnvIncludeTPCH), "Include the large tpch corpus (env "+config.EnvIncludeTPCH+")")
	cmd.Flags().StringVar(&f.Engine, "engine", "", "Primary engine: sqlite or duckdb (env "+config.EnvEngine+")")
	cmd.Flags().StringVar(&f.Reference, "reference", "", "Reference engine: postgres or mysql (env "+config.EnvReference+")")
	cmd.Flags().StringVar(&f.ConfigFile, "config", "", "Path to a YAML config file (default "+config.DefaultConfigFile+" when present)")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn or error (env "+config.EnvLogLevel+")")
}

// BindRun registers the flags of the run command, including the ignored compatibility options
func (f *Flags) BindRun(cmd *cobra.Command) {
	f.BindSelection(cmd)
	cmd.Flags().BoolVar(&f.Complete, "complete", false, "Rewrite expected results from actual output instead of comparing")
	cmd.Flags().IntVarP(&f.Processors, "processors", "p", 0, "Number of files to run concurrently (default: available parallelism)")
	cmd.Flags().BoolVar(&f.NoSave, "no-save", false, "Do not save results for the failures viewer")

	cmd.Flags().StringVar(&f.Format, "format", "", "Ignored, accepted for test-runner compatibility")
	cmd.Flags().StringVarP(&f.ZOptions, "unstable-options", "Z", "", "Ignored, accepted for test-runner compatibility")
	cmd.Flags().BoolVar(&f.ShowOutput, "show-output", false, "Ignored, accepted for test-runner compatibility")
	cmd.Flags().BoolVar(&f.Ignored, "ignored", false, "Ignored, accepted for test-runner compatibility")
	cmd.Flags().BoolVar(&f.List, "list", false, "Print a notice and exit, accepted for test-listing tools")
}
