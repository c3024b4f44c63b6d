package commands

import (
	"sltrun/internal/cli"
	"sltrun/internal/storage"
	"sltrun/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	flags *cli.Flags
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(flags *cli.Flags) *FailuresCommand {
	return &FailuresCommand{flags: flags}
}

// Execute loads the last run, prints its stats and opens the viewer
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, fc.flags, nil)
	if err != nil {
		return err
	}

	st := storage.NewJSONStorage(cfg)
	results, err := st.Load()
	if err != nil {
		return runtimeError(err)
	}

	if len(results.Details) == 0 {
		ui.NewFormatter(cmd.OutOrStdout()).PrintMetaStats(results)
		return nil
	}
	return ui.NewErrorViewer(st).View(results)
}
