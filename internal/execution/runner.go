package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/rs/zerolog/log"

	"sltrun/internal/config"
	"sltrun/internal/domain"
	"sltrun/internal/engine"
	"sltrun/internal/parser"
	"sltrun/internal/ui"
)

// Mode selects what a run does with actual output
type Mode int

const (
	// ModeCompare validates actual output against the file
	ModeCompare Mode = iota
	// ModeRegenerate rewrites the file's expectations from actual output
	ModeRegenerate
)

func (m Mode) String() string {
	if m == ModeRegenerate {
		return "complete"
	}
	return "compare"
}

// Runner drives one script file through an engine
type Runner struct {
	config    *config.Config
	primary   engine.Engine
	reference engine.Engine
	progress  *ui.MultiProgress
	mode      Mode
}

// NewRunner creates a Runner. reference may be nil. With a reference engine
// compare mode runs files on the reference engine, and regenerate mode
// annotates differences between the two engines.
func NewRunner(cfg *config.Config, primary, reference engine.Engine, progress *ui.MultiProgress) *Runner {
	mode := ModeCompare
	if cfg.Flags.Complete {
		mode = ModeRegenerate
	}
	return &Runner{
		config:    cfg,
		primary:   primary,
		reference: reference,
		progress:  progress,
		mode:      mode,
	}
}

// Mode returns the run mode
func (r *Runner) Mode() Mode {
	return r.mode
}

// Run executes one file. It returns engine.ErrSkipFile when the file is
// skipped, a *domain.RecordError for the first failing record, or another
// error when the harness itself failed.
func (r *Runner) Run(ctx context.Context, file domain.TestFile) error {
	bar := r.progress.Add(file.DisplayName(), 0)
	defer bar.Finish()

	if r.mode == ModeRegenerate {
		return r.regenerate(ctx, file, bar)
	}

	eng := r.primary
	if r.reference != nil {
		eng = r.reference
	}
	return r.compare(ctx, eng, file, bar)
}

// open creates the driver, then prepares scratch and parses the file. The
// skip decision of the engine comes before any scratch setup.
func (r *Runner) open(ctx context.Context, eng engine.Engine, file domain.TestFile, bar *ui.Bar) (engine.Driver, string, []parser.Record, error) {
	driver, err := eng.NewDriver(ctx, file, bar)
	if err != nil {
		if errors.Is(err, engine.ErrSkipFile) {
			logger.Info().Str("file", file.Path).Msg("Skipping")
		}
		return nil, "", nil, err
	}

	scratch, err := setupScratch(r.config.GetScratchDir(file.Stem()))
	if err != nil {
		driver.Close()
		return nil, "", nil, err
	}

	records, err := parser.Parse(file.Path)
	if err != nil {
		driver.Close()
		return nil, "", nil, err
	}
	bar.SetTotal(parser.CountEffective(records, eng.Name()))

	return driver, scratch, records, nil
}

func (r *Runner) compare(ctx context.Context, eng engine.Engine, file domain.TestFile, bar *ui.Bar) error {
	driver, scratch, records, err := r.open(ctx, eng, file, bar)
	if err != nil {
		return err
	}
	defer driver.Close()

	label := eng.Name()
	state := newFileState(r.config, file, label, scratch)

	for i := range records {
		rec := &records[i]
		if state.apply(rec) {
			break
		}
		if !rec.IsExecutable() || rec.ShouldSkip(label) {
			continue
		}

		out, err := driver.Run(ctx, state.prepare(rec))
		if ferr := state.check(rec, out, err); ferr != nil {
			return ferr
		}
	}
	return nil
}

func (r *Runner) regenerate(ctx context.Context, file domain.TestFile, bar *ui.Bar) error {
	logger.Info().Str("file", file.Path).Msg("Using complete mode to complete")

	driver, scratch, records, err := r.open(ctx, r.primary, file, bar)
	if err != nil {
		return err
	}
	defer driver.Close()

	var refDriver engine.Driver
	var refLabel string
	if r.reference != nil {
		refLabel = r.reference.Name()
		refDriver, err = r.reference.NewDriver(ctx, file, nil)
		if err != nil {
			return fmt.Errorf("reference engine %s: %w", refLabel, err)
		}
		defer refDriver.Close()
		records = stripAnnotations(records, refLabel)
	}

	label := r.primary.Name()
	state := newFileState(r.config, file, label, scratch)
	updated := make([]parser.Record, 0, len(records))
	halted := false

	for i := range records {
		rec := records[i]
		if halted || state.apply(&rec) {
			halted = true
			updated = append(updated, rec)
			continue
		}
		if !rec.IsExecutable() || rec.ShouldSkip(label) {
			updated = append(updated, rec)
			continue
		}

		exec := state.prepare(&rec)
		out, err := driver.Run(ctx, exec)

		if refDriver != nil && !rec.ShouldSkip(refLabel) {
			refOut, refErr := refDriver.Run(ctx, exec)
			updated = append(updated, state.annotate(refLabel, &rec, out, err, refOut, refErr)...)
		}

		if cerr := state.complete(&rec, out, err); cerr != nil {
			return cerr
		}
		updated = append(updated, rec)
	}

	return writeAtomic(file.Path, updated)
}

// annotate describes how the reference engine's result differs from the
// primary engine's as comment records placed before the record
func (s *fileState) annotate(label string, rec *parser.Record, out *engine.Output, err error, refOut *engine.Output, refErr error) []parser.Record {
	var notes []string
	switch {
	case err != nil && refErr != nil:
	case refErr != nil:
		notes = append(notes, "error: "+firstLine(refErr.Error()))
	case err != nil:
		notes = append(notes, "succeeded")
		if rec.Kind == parser.KindQuery {
			notes = append(notes, indent(resultLines(s.shape(rec, refOut.Rows)))...)
		}
	case rec.Kind == parser.KindQuery:
		primary := resultLines(s.shape(rec, out.Rows))
		reference := resultLines(s.shape(rec, refOut.Rows))
		if !equalLines(primary, reference) {
			notes = append(notes, "result differs")
			notes = append(notes, indent(reference)...)
		}
	case rec.ExpectCount && out.RowsAffected != refOut.RowsAffected:
		notes = append(notes, fmt.Sprintf("affected %d rows", refOut.RowsAffected))
	}

	annotations := make([]parser.Record, 0, len(notes))
	for _, note := range notes {
		annotations = append(annotations, parser.Record{
			Kind: parser.KindComment,
			Line: rec.Line,
			Text: annotationPrefix(label) + " " + note,
		})
	}
	return annotations
}

func annotationPrefix(label string) string {
	return "# " + label + ":"
}

// stripAnnotations drops the comments left by a previous regeneration
func stripAnnotations(records []parser.Record, label string) []parser.Record {
	prefix := annotationPrefix(label)
	kept := make([]parser.Record, 0, len(records))
	for _, rec := range records {
		if rec.Kind == parser.KindComment && strings.HasPrefix(rec.Text, prefix) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// writeAtomic replaces path with the serialized records through a temporary
// file in the same directory
func writeAtomic(path string, records []parser.Record) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := parser.Write(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "  " + line
	}
	return out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
