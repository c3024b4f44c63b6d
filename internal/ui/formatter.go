package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"sltrun/internal/domain"
	"sltrun/internal/parser"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to w, or to the color-aware stdout when w is nil
func NewFormatter(w io.Writer) *Formatter {
	if w == nil {
		w = color.Output
	}
	return &Formatter{out: w}
}

func (f *Formatter) row(label string, value string, paint func(format string, a ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s\n", label, paint("%-27s │", value))
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintMetaStats displays the meta statistics of a saved run followed by the failure tree
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	// Print header
	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Execution Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	reference := meta.Reference
	if reference == "" {
		reference = "-"
	}

	// Print table
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	rows := []struct {
		label string
		value string
		paint func(format string, a ...interface{}) string
	}{
		{"Run ID", meta.RunID, color.WhiteString},
		{"Mode", meta.Mode, color.WhiteString},
		{"Engine", meta.Engine, color.WhiteString},
		{"Reference", reference, color.WhiteString},
		{"Total Test Files", fmt.Sprint(meta.TotalTestFiles), color.WhiteString},
		{"Passed Test Files", fmt.Sprint(meta.PassedTestFiles), color.GreenString},
		{"Skipped Test Files", fmt.Sprint(meta.SkippedTestFiles), color.YellowString},
		{"Failed Test Files", fmt.Sprint(meta.FailedTestFiles), color.RedString},
		{"Infrastructure Failures", fmt.Sprint(meta.InfrastructureFailures), color.RedString},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString},
		{"Workers", fmt.Sprint(meta.Workers), color.WhiteString},
		{"Timestamp", meta.Timestamp, color.WhiteString},
	}
	for i, r := range rows {
		if i > 0 {
			f.separator()
		}
		f.row(r.label, r.value, r.paint)
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	failed := meta.FailedTestFiles + meta.InfrastructureFailures
	if failed == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ %d test file(s) failed", failed))
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.Failure
	IsFile   bool
}

// printFailedTestsTree prints a tree structure of failed files
func (f *Formatter) printFailedTestsTree(failures []domain.Failure) {
	if len(failures) == 0 {
		return
	}

	// Group failures by file path
	fileMap := make(map[string][]domain.Failure)
	for _, failure := range failures {
		fileMap[failure.File] = append(fileMap[failure.File], failure)
	}

	root := &TreeNode{
		Children: make(map[string]*TreeNode),
	}

	for filePath, fileFailures := range fileMap {
		parts := strings.Split(strings.TrimPrefix(filePath, "./"), "/")
		current := root

		// Navigate/create tree nodes for each path part
		for i, part := range parts {
			if part == "" {
				continue
			}

			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}

			current = current.Children[part]

			if i == len(parts)-1 {
				current.Failures = fileFailures
			}
		}
	}

	f.printTreeNode(root, "", true)
}

func failureLabel(failure domain.Failure) string {
	if failure.Line > 0 {
		return fmt.Sprintf("line %d: %s", failure.Line, failure.Kind)
	}
	return failure.Kind
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string, isRoot bool) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLastChild := i == len(keys)-1

		connector := prefix + "├── "
		if isLastChild {
			connector = prefix + "└── "
		}
		if isRoot {
			connector = ""
		}

		if child.IsFile {
			fmt.Fprintln(f.out, color.YellowString("%s%s", connector, child.Name))
		} else {
			fmt.Fprintln(f.out, color.CyanString("%s%s", connector, child.Name))
		}

		childPrefix := prefix + "│   "
		if isLastChild {
			childPrefix = prefix + "    "
		}
		if isRoot {
			childPrefix = ""
		}

		for j, failure := range child.Failures {
			casePrefix := childPrefix + "├── "
			if j == len(child.Failures)-1 {
				casePrefix = childPrefix + "└── "
			}
			fmt.Fprintln(f.out, color.RedString("%s%s", casePrefix, failureLabel(failure)))
		}

		f.printTreeNode(child, childPrefix, false)
	}
}

// PrintTestList prints a list of test files, optionally with the number of
// records effective under label.
// failedPaths is optional; if set, files in this set are marked with [F] in red (from last run).
func (f *Formatter) PrintTestList(files []domain.TestFile, showCounts bool, label string, failedPaths map[string]struct{}) {
	fmt.Fprintln(f.out, color.GreenString("Found %d test file(s):", len(files)))
	fmt.Fprintln(f.out)

	var total int64
	for i, file := range files {
		name := file.DisplayName()

		failMarker := ""
		if _, ok := failedPaths[name]; ok {
			failMarker = " " + color.RedString("[F]")
		}

		count := ""
		if showCounts {
			n, err := parser.CountEffectiveRecords(file.Path, label)
			if err != nil {
				count = " " + color.RedString("(parse error: %v)", err)
			} else {
				total += n
				count = " " + color.YellowString("(%d records)", n)
			}
		}

		connector := "├── "
		if i == len(files)-1 {
			connector = "└── "
		}
		fmt.Fprintf(f.out, "%s%s%s%s\n", color.CyanString(connector), color.CyanString(name), count, failMarker)
	}

	if showCounts {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, color.GreenString("%d record(s) effective under %s", total, label))
	}
}
