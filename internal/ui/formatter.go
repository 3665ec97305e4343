package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"snajper/internal/domain"
)

// Formatter formats selections and run results for the terminal
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintSelection lists the tests chosen for a changed file
func (f *Formatter) PrintSelection(sel domain.Selection) {
	cyan := color.New(color.FgCyan)
	if sel.Empty() {
		color.New(color.FgYellow).Fprintf(f.out, "No tests cover %s\n", sel.Path)
	} else {
		cyan.Fprintf(f.out, "%d test(s) cover %s\n", len(sel.Invocations), sel.Path)
		for _, inv := range sel.Invocations {
			fmt.Fprintf(f.out, "  %s\n", inv.String())
		}
	}
	for _, raw := range sel.Unresolved {
		color.New(color.FgYellow).Fprintf(f.out, "  ? %s (unresolved)\n", raw)
	}
}

// PrintSelectionTree prints the union of several selections grouped by test
// file, the way the failed-test tree groups failures
func (f *Formatter) PrintSelectionTree(selections []domain.Selection) {
	byFile := make(map[string]map[string]bool)
	for _, sel := range selections {
		for _, inv := range sel.Invocations {
			if byFile[inv.File] == nil {
				byFile[inv.File] = make(map[string]bool)
			}
			byFile[inv.File][inv.Name] = true
		}
	}
	if len(byFile) == 0 {
		color.New(color.FgYellow).Fprintln(f.out, "No tests selected")
		return
	}

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for i, file := range files {
		branch, indent := "├── ", "│   "
		if i == len(files)-1 {
			branch, indent = "└── ", "    "
		}
		color.New(color.FgCyan).Fprintf(f.out, "%s%s\n", branch, file)

		names := make([]string, 0, len(byFile[file]))
		for name := range byFile[file] {
			names = append(names, name)
		}
		sort.Strings(names)
		for j, name := range names {
			leaf := "├── "
			if j == len(names)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, leaf, name)
		}
	}
}

// PrintRunSummary prints the outcome of one engine run
func (f *Formatter) PrintRunSummary(result domain.RunResult) {
	fmt.Fprintln(f.out)
	if result.Success {
		color.New(color.FgGreen).Fprintf(f.out, "✓ %d passed in %s\n", result.Passed, result.Duration.Round(time.Millisecond))
		return
	}

	color.New(color.FgRed).Fprintf(f.out, "✗ %d failed, %d passed in %s (exit code %d)\n",
		result.Failed, result.Passed, result.Duration.Round(time.Millisecond), result.ExitCode)
	for _, failure := range result.Failures {
		file, name, _ := strings.Cut(failure.Invocation, "::")
		line := fmt.Sprintf("  %s::%s", filepath.ToSlash(file), name)
		if failure.Message != "" {
			line += color.New(color.FgHiBlack).Sprintf(" - %s", failure.Message)
		}
		fmt.Fprintln(f.out, line)
	}
}
