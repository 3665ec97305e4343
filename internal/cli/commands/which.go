package commands

import (
	"errors"

	"snajper/internal/domain"
	"snajper/internal/ui"

	"github.com/spf13/cobra"
)

// WhichCommand prints the tests selected for one or more files
type WhichCommand struct {
	load loadFunc
}

// NewWhichCommand creates a new WhichCommand
func NewWhichCommand(load loadFunc) *WhichCommand {
	return &WhichCommand{load: load}
}

// Execute runs the command
func (wc *WhichCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := wc.load("")
	if err != nil {
		return err
	}
	svc := newServices(cfg)
	ctx := cmd.Context()

	var bar *ui.ProgressBar
	if len(args) > 1 {
		bar = ui.NewProgressBar(len(args))
	}

	selections := make([]domain.Selection, 0, len(args))
	selected := 0
	for i, path := range args {
		sel, err := svc.runner.Select(ctx, path)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return err
			}
			svc.logger.Errorf("%s: %v", path, err)
		}
		for _, raw := range sel.Unresolved {
			svc.logger.Warnf("Could not find a test file for %s, skipping it", raw)
		}
		selections = append(selections, sel)
		selected += len(sel.Invocations)
		if bar != nil {
			bar.Update(i+1, selected)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if len(selections) == 1 {
		svc.formatter.PrintSelection(selections[0])
		return nil
	}
	svc.formatter.PrintSelectionTree(selections)
	return nil
}
