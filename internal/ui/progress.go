package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// maxListedFiles caps the active file names shown in the description
const maxListedFiles = 3

// Bar is the progress handle of one running file
type Bar struct {
	name    string
	total   atomic.Int64
	current atomic.Int64
	done    atomic.Bool
	owner   *MultiProgress
}

// Inc advances the bar by one record
func (b *Bar) Inc() {
	if b.done.Load() {
		return
	}
	b.current.Add(1)
	b.owner.refresh()
}

// SetTotal sizes the bar
func (b *Bar) SetTotal(total int64) {
	b.total.Store(total)
	b.owner.refresh()
}

// Current returns the number of completed records
func (b *Bar) Current() int64 { return b.current.Load() }

// Total returns the size of the bar
func (b *Bar) Total() int64 { return b.total.Load() }

// Finish removes the bar from the display. Safe to call more than once.
func (b *Bar) Finish() {
	if b.done.CompareAndSwap(false, true) {
		b.owner.remove(b)
	}
}

// MultiProgress renders many concurrently active file bars through one
// aggregate progress bar. Rendering is best effort.
type MultiProgress struct {
	mu          sync.Mutex
	w           io.Writer
	bar         *progressbar.ProgressBar
	active      map[*Bar]struct{}
	doneTotal   int64
	doneCurrent int64
	start       time.Time
}

// NewMultiProgress creates a reporter writing to w. An invisible reporter
// still tracks bars but renders nothing.
func NewMultiProgress(w io.Writer, visible bool) *MultiProgress {
	m := &MultiProgress{
		w:      w,
		active: make(map[*Bar]struct{}),
		start:  time.Now(),
	}
	if visible {
		m.bar = progressbar.NewOptions64(0,
			progressbar.OptionSetDescription(color.CyanString("Running tests")),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        color.CyanString("█"),
				SaucerHead:    color.CyanString("█"),
				SaucerPadding: "░",
				BarStart:      "│",
				BarEnd:        "│",
			}),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return m
}

// NewTerminalProgress creates a reporter on stderr, visible only when
// stderr is a terminal
func NewTerminalProgress() *MultiProgress {
	fd := os.Stderr.Fd()
	visible := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return NewMultiProgress(os.Stderr, visible)
}

// Add registers a bar for a running file
func (m *MultiProgress) Add(name string, total int64) *Bar {
	b := &Bar{name: name, owner: m}
	b.total.Store(total)

	m.mu.Lock()
	m.active[b] = struct{}{}
	m.mu.Unlock()

	m.refresh()
	return b
}

// Active returns the names of the registered bars in sorted order
func (m *MultiProgress) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeNames()
}

// Elapsed returns the time since the reporter was created
func (m *MultiProgress) Elapsed() time.Duration {
	return time.Since(m.start)
}

// Println prints a line above the progress display
func (m *MultiProgress) Println(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bar != nil {
		_ = m.bar.Clear()
	}
	fmt.Fprintf(m.w, format+"\n", args...)
}

// Finish completes the aggregate bar
func (m *MultiProgress) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bar != nil {
		_ = m.bar.Finish()
		_ = m.bar.Clear()
	}
}

func (m *MultiProgress) remove(b *Bar) {
	m.mu.Lock()
	if _, ok := m.active[b]; ok {
		delete(m.active, b)
		m.doneTotal += b.total.Load()
		m.doneCurrent += b.current.Load()
	}
	m.mu.Unlock()
	m.refresh()
}

func (m *MultiProgress) refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bar == nil {
		return
	}

	total, current := m.doneTotal, m.doneCurrent
	for b := range m.active {
		total += b.total.Load()
		current += b.current.Load()
	}
	if current > total {
		total = current
	}

	m.bar.ChangeMax64(total)
	_ = m.bar.Set64(current)
	m.bar.Describe(m.describe())
}

func (m *MultiProgress) describe() string {
	names := m.activeNames()
	if len(names) == 0 {
		return color.CyanString("Running tests")
	}
	listed := names
	if len(listed) > maxListedFiles {
		listed = listed[:maxListedFiles]
	}
	desc := color.CyanString("Running %d: ", len(names)) + strings.Join(listed, ", ")
	if len(names) > len(listed) {
		desc += fmt.Sprintf(" (+%d)", len(names)-len(listed))
	}
	return desc
}

func (m *MultiProgress) activeNames() []string {
	names := make([]string, 0, len(m.active))
	for b := range m.active {
		names = append(names, b.name)
	}
	sort.Strings(names)
	return names
}
