package commands

import (
	"sltrun/internal/cli"
	"sltrun/internal/config"
	"sltrun/internal/engine"
	"sltrun/internal/exitcodes"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	flags    *cli.Flags
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands. Configuration is loaded when a command
// executes, once flags and positional filters are known.
func NewCommands(flags *cli.Flags) *Commands {
	return &Commands{
		flags:    flags,
		Run:      NewRunCommand(flags),
		List:     NewListCommand(&cli.Flags{}),
		Failures: NewFailuresCommand(flags),
	}
}

// Register wires the run command into the root and adds the subcommands
func (c *Commands) Register(rootCmd *cobra.Command) {
	// Run command: the root itself, positional args are substring filters
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = c.Run.Execute
	c.flags.BindRun(rootCmd)

	// List command
	listFlags := c.List.flags
	listCmd := &cobra.Command{
		Use:   "list [filter...]",
		Short: "List selected script files",
		Long:  "Discover and filter script files without executing them",
		Args:  cobra.ArbitraryArgs,
		RunE:  c.List.Execute,
	}
	listFlags.BindSelection(listCmd)
	listCmd.Flags().BoolVarP(&listFlags.TestCases, "records", "c", false, "Show the number of records effective under the running label")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failures of the last run interactively",
		Long:  "Display failed files from the last run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().StringVar(&c.flags.ConfigFile, "config", "", "Path to a YAML config file (default "+config.DefaultConfigFile+" when present)")
	rootCmd.AddCommand(failuresCmd)
}

// loadConfig builds the immutable run configuration and sets up logging
func loadConfig(cmd *cobra.Command, flags *cli.Flags, args []string) (*config.Config, error) {
	cfg, err := config.Load(flags.ToConfigFlags(args))
	if err != nil {
		return nil, runtimeError(err)
	}
	cfg.SetupLogger(cmd.ErrOrStderr())
	return cfg, nil
}

func runtimeError(err error) error {
	return &exitcodes.Error{Code: exitcodes.RuntimeErr, Err: err}
}

// NewRootCommand builds the sltrun command tree
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, engine.New)
}

func newRootCommand(version string, newEngine EngineFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sltrun [filter...]",
		Short:         "Concurrent sqllogictest runner",
		Long:          `Run sqllogictest script files concurrently against an embedded SQL engine, optionally cross-checking a reference engine, and report every failing file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags cli.Flags
	cmds := NewCommands(&flags)
	cmds.Run.newEngine = newEngine
	cmds.Register(rootCmd)
	return rootCmd
}
