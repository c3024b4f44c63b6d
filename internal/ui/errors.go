package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	logger "github.com/rs/zerolog/log"

	"sltrun/internal/domain"
	"sltrun/internal/storage"
)

// maxDiffLines caps the expected and actual lines shown for a failure
const maxDiffLines = 40

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	b := newFailureBrowser(results, ev.storage)
	if err := b.app.SetRoot(b.layout(), true).SetFocus(b.list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureBrowser is the failure list on the left and the selected failure on the right
type failureBrowser struct {
	results *domain.TestResultsOutput
	storage storage.Storage

	app     *tview.Application
	list    *tview.List
	header  *tview.TextView
	stats   *tview.TextView
	details *tview.TextView
}

func newFailureBrowser(results *domain.TestResultsOutput, st storage.Storage) *failureBrowser {
	b := &failureBrowser{
		results: results,
		storage: st,
		app:     tview.NewApplication(),
		list:    tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true),
		header:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		stats:   tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		details: tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true),
	}

	for i, failure := range results.Details {
		b.list.AddItem(listItemText(failure, i+1, failure.Resolved), "", 0, nil)
	}
	b.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	b.list.SetChangedFunc(func(int, string, string, rune) { b.showSelected() })
	b.list.SetInputCapture(b.listKeys)
	b.details.SetInputCapture(b.detailKeys)

	b.refreshHeader()
	b.showSelected()
	return b
}

// layout puts the header above a 1/3 list and a 2/3 stats plus details column
func (b *failureBrowser) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.stats, 3, 0, false).
		AddItem(tview.NewFlex().AddItem(b.details, 0, 1, false).AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

func (b *failureBrowser) unresolved() int {
	count := 0
	for _, failure := range b.results.Details {
		if !failure.Resolved {
			count++
		}
	}
	return count
}

func (b *failureBrowser) refreshHeader() {
	b.header.SetText(fmt.Sprintf(" Failed Files (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] resolve, → details, ← back, Ctrl+C exit ",
		len(b.results.Details), b.unresolved()))
}

func (b *failureBrowser) showSelected() {
	index := b.list.GetCurrentItem()
	if index < 0 || index >= len(b.results.Details) {
		return
	}
	failure := b.results.Details[index]
	b.stats.SetText(formatFailureStats(failure))
	b.details.SetText(formatFailureDetails(failure))
}

// toggleResolved flips the resolved mark of a failure and persists the results
func (b *failureBrowser) toggleResolved(index int) error {
	if index < 0 || index >= len(b.results.Details) {
		return nil
	}
	failure := &b.results.Details[index]
	failure.Resolved = !failure.Resolved
	b.list.SetItemText(index, listItemText(*failure, index+1, failure.Resolved), "")
	b.refreshHeader()
	return b.storage.SaveOutput(b.results)
}

func (b *failureBrowser) listKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		b.app.SetFocus(b.details)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		if r := event.Rune(); r == 'r' || r == 'R' {
			if err := b.toggleResolved(b.list.GetCurrentItem()); err != nil {
				logger.Warn().Err(err).Msg("failed to save resolved status")
			}
			return nil
		}
	}
	return event
}

func (b *failureBrowser) detailKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		b.app.SetFocus(b.list)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	}
	return event
}

// listItemText renders one failure in the list
func listItemText(failure domain.Failure, number int, resolved bool) string {
	name := failure.File
	if failure.Line > 0 {
		name = fmt.Sprintf("%s:%d", failure.File, failure.Line)
	}
	name = tview.Escape(name)
	if resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", number, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", number, name)
}

// formatFailureDetails formats a failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.Failure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ %s[white]\n\n", tview.Escape(failure.Kind))

	// File path
	fmt.Fprintf(w, "[cyan]File: %s[white]\n", tview.Escape(failure.File))
	if failure.Line > 0 {
		fmt.Fprintf(w, "[yellow]Location: %s:%d[white]\n", tview.Escape(failure.File), failure.Line)
	}
	fmt.Fprintf(w, "\n")

	if failure.SQL != "" {
		fmt.Fprintf(w, "[yellow]SQL:[white]\n%s\n\n", tview.Escape(failure.SQL))
	}

	// Error message
	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.Expected) > 0 || len(failure.Actual) > 0 {
		writeLines(w, "Expected", failure.Expected)
		writeLines(w, "Actual", failure.Actual)
	}

	w.Flush()
	return builder.String()
}

func writeLines(w *tabwriter.Writer, title string, lines []string) {
	fmt.Fprintf(w, "[yellow]%s:[white]\n", title)
	for i, line := range lines {
		if i < maxDiffLines {
			fmt.Fprintf(w, "  %s\n", tview.Escape(line))
		}
	}
	if len(lines) > maxDiffLines {
		fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(lines)-maxDiffLines)
	}
	fmt.Fprintf(w, "\n")
}

// formatFailureStats formats the stats header for a failure
func formatFailureStats(failure domain.Failure) string {
	path := failure.File
	if path == "" {
		path = "Unknown path"
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white] [cyan]kind:[white] [yellow]%s[white]\n", tview.Escape(path), tview.Escape(failure.Kind))
}
