package commands

import (
	"context"

	"snajper/internal/ui"

	"github.com/spf13/cobra"
)

// BrowseCommand opens the interactive coverage browser
type BrowseCommand struct {
	load loadFunc
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand(load loadFunc) *BrowseCommand {
	return &BrowseCommand{load: load}
}

// Execute runs the command
func (bc *BrowseCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := bc.load("")
	if err != nil {
		return err
	}
	svc := newServices(cfg)

	run := func(ctx context.Context, path string) error {
		_, _, err := svc.runner.Run(ctx, path)
		return err
	}

	var viewer ui.Viewer = ui.NewBrowser(svc.store, svc.resolver, run)
	return viewer.View(cmd.Context())
}
