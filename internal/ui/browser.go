package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"snajper/internal/coverage"
	"snajper/internal/domain"
	"snajper/internal/resolver"
)

// FileCoverage is one row of the coverage browser
type FileCoverage struct {
	Path    string
	TestIDs []string
}

// BuildCoverageMap groups records by file. Files without any test keep an
// empty entry so untested code is visible too.
func BuildCoverageMap(files []string, records []domain.CoverageRecord) []FileCoverage {
	index := make(map[string]int, len(files))
	rows := make([]FileCoverage, 0, len(files))
	for _, f := range files {
		if _, ok := index[f]; ok {
			continue
		}
		index[f] = len(rows)
		rows = append(rows, FileCoverage{Path: f})
	}
	for _, rec := range records {
		i, ok := index[rec.SourcePath]
		if !ok {
			i = len(rows)
			index[rec.SourcePath] = i
			rows = append(rows, FileCoverage{Path: rec.SourcePath})
		}
		rows[i].TestIDs = append(rows[i].TestIDs, rec.TestID)
	}
	return rows
}

// RunFunc runs the selection for one source file while the browser is suspended
type RunFunc func(ctx context.Context, path string) error

// Browser shows which tests cover which file in an interactive TUI
type Browser struct {
	store    coverage.Store
	resolver *resolver.Resolver
	run      RunFunc
}

// NewBrowser creates a new Browser. run may be nil, which disables the run key.
func NewBrowser(store coverage.Store, res *resolver.Resolver, run RunFunc) *Browser {
	return &Browser{store: store, resolver: res, run: run}
}

// View loads the coverage map and displays it until the user quits
func (b *Browser) View(ctx context.Context) error {
	files, err := b.store.Files(ctx)
	if err != nil {
		return err
	}
	records, err := b.store.Records(ctx)
	if err != nil {
		return err
	}
	rows := BuildCoverageMap(files, records)
	if len(rows) == 0 {
		return fmt.Errorf("coverage store has no measured files")
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for _, row := range rows {
		list.AddItem(listItemText(row), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 2, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	covered := 0
	for _, row := range rows {
		if len(row.TestIDs) > 0 {
			covered++
		}
	}
	header := fmt.Sprintf(" Coverage map (%d files, %d covered by tests) | ↑↓ navigate, → details, ← back", len(rows), covered)
	if b.run != nil {
		header += ", [yellow]R[white] run tests"
	}
	header += ", Ctrl+C exit "
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(header)

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(rows) {
			return
		}
		row := rows[index]
		statsView.SetText(fmt.Sprintf("[cyan]file:[white] [yellow]%s[white]\n", row.Path))
		detailsView.SetText(b.formatDetails(row, records))
		detailsView.ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if (event.Rune() == 'r' || event.Rune() == 'R') && b.run != nil {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(rows) {
					path := rows[index].Path
					app.Suspend(func() {
						if err := b.run(ctx, path); err != nil {
							fmt.Printf("\n%v\n", err)
						}
						fmt.Print("\nPress Enter to return to the browser...")
						fmt.Scanln()
					})
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(row FileCoverage) string {
	if len(row.TestIDs) == 0 {
		return fmt.Sprintf("[gray]%s (0)[white]", tview.Escape(row.Path))
	}
	return fmt.Sprintf("%s [yellow](%d)[white]", tview.Escape(row.Path), len(row.TestIDs))
}

// formatDetails lists the tests covering one file using tview color tags
func (b *Browser) formatDetails(row FileCoverage, records []domain.CoverageRecord) string {
	var builder strings.Builder
	if len(row.TestIDs) == 0 {
		builder.WriteString("[gray]No test executed any line of this file.[white]\n")
		return builder.String()
	}

	fmt.Fprintf(&builder, "[yellow]Covered by %d test(s):[white]\n\n", len(row.TestIDs))
	for _, raw := range row.TestIDs {
		inv, err := b.resolver.Resolve(raw, records)
		if err != nil {
			fmt.Fprintf(&builder, "  [red]? %s[white] [gray](unresolved)[white]\n", tview.Escape(raw))
			continue
		}
		fmt.Fprintf(&builder, "  [green]%s[white]\n", tview.Escape(inv.String()))
	}
	return builder.String()
}
