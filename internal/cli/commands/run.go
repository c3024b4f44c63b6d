package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"sltrun/internal/cli"
	"sltrun/internal/config"
	"sltrun/internal/discovery"
	"sltrun/internal/engine"
	"sltrun/internal/execution"
	"sltrun/internal/report"
	"sltrun/internal/storage"
	"sltrun/internal/ui"

	"github.com/fatih/color"
	logger "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// EngineFactory creates an engine by name
type EngineFactory func(name string, cfg *config.Config) (engine.Engine, error)

// RunCommand handles the root command: discover, schedule, report
type RunCommand struct {
	flags     *cli.Flags
	newEngine EngineFactory
}

// NewRunCommand creates a new RunCommand using the engine registry
func NewRunCommand(flags *cli.Flags) *RunCommand {
	return &RunCommand{flags: flags, newEngine: engine.New}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	if rc.flags.List {
		fmt.Fprintln(stderr, "NOTICE: --list option unsupported, quitting")
		return nil
	}

	cfg, err := loadConfig(cmd, rc.flags, args)
	if err != nil {
		return err
	}
	cfg.WarnOnIgnored(stderr)

	primary, reference, err := rc.engines(cfg)
	if err != nil {
		return runtimeError(err)
	}

	ctx := cmd.Context()
	files, err := discovery.NewDiscoverer(cfg).Discover(ctx)
	if err != nil {
		return runtimeError(fmt.Errorf("discovery failed: %w", err))
	}
	logger.Info().Int("files", len(files)).Str("mode", cfg.Mode()).Msg("discovered script files")

	service, _ := reference.(engine.Service)
	if service != nil {
		if err := service.Start(ctx); err != nil {
			return runtimeError(fmt.Errorf("failed to start %s: %w", reference.Name(), err))
		}
	}

	progress := newProgress(stderr)
	runner := execution.NewRunner(cfg, primary, reference, progress)
	scheduler := execution.NewScheduler(runner, cfg.Parallelism())
	outcomes := scheduler.Execute(ctx, files)
	progress.Finish()
	elapsed := progress.Elapsed()
	progress.Println("Completed in %s", elapsed.Round(time.Millisecond))

	if service != nil {
		if err := service.Stop(ctx); err != nil {
			return runtimeError(fmt.Errorf("failed to stop %s: %w", reference.Name(), err))
		}
	}

	aggregator := report.NewAggregator()
	aggregator.Collect(outcomes)
	aggregator.Print(cmd.OutOrStdout())

	if !cfg.Flags.NoSave {
		run := storage.RunInfo{
			Mode:     runner.Mode().String(),
			Engine:   primary.Name(),
			Duration: elapsed,
			Workers:  scheduler.Parallelism(),
		}
		if reference != nil {
			run.Reference = reference.Name()
		}
		if _, err := storage.NewJSONStorage(cfg).Save(outcomes, run); err != nil {
			color.New(color.FgYellow).Fprintf(stderr, "Warning: failed to save test results: %v\n", err)
		}
	}

	return aggregator.Err()
}

// engines creates the primary engine and, in reference-runner mode, the reference engine
func (rc *RunCommand) engines(cfg *config.Config) (engine.Engine, engine.Engine, error) {
	primary, err := rc.newEngine(cfg.Engine, cfg)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Flags.ReferenceRunner {
		return primary, nil, nil
	}
	reference, err := rc.newEngine(cfg.Reference, cfg)
	if err != nil {
		return nil, nil, err
	}
	return primary, reference, nil
}

// newProgress renders bars only on an interactive stderr
func newProgress(w io.Writer) *ui.MultiProgress {
	if w == os.Stderr {
		return ui.NewTerminalProgress()
	}
	return ui.NewMultiProgress(w, false)
}
