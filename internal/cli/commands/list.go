package commands

import (
	"path/filepath"

	"sltrun/internal/cli"
	"sltrun/internal/discovery"
	"sltrun/internal/storage"
	"sltrun/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	flags *cli.Flags
}

// NewListCommand creates a new ListCommand
func NewListCommand(flags *cli.Flags) *ListCommand {
	return &ListCommand{flags: flags}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, lc.flags, args)
	if err != nil {
		return err
	}

	files, err := discovery.NewDiscoverer(cfg).Discover(cmd.Context())
	if err != nil {
		return runtimeError(err)
	}

	if len(files) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No script files found")
		return nil
	}

	// Mark files that failed in the last run, when results exist
	failedPaths := make(map[string]struct{})
	if results, err := storage.NewJSONStorage(cfg).Load(); err == nil {
		for _, failure := range results.Details {
			failedPaths[filepath.ToSlash(failure.File)] = struct{}{}
		}
	}

	label := cfg.Engine
	if cfg.Flags.ReferenceRunner {
		label = cfg.Reference
	}
	ui.NewFormatter(cmd.OutOrStdout()).PrintTestList(files, cfg.Flags.TestCases, label, failedPaths)
	return nil
}
