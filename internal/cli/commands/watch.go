package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"snajper/internal/dispatch"
	"snajper/internal/watcher"

	"github.com/spf13/cobra"
)

// WatchCommand watches the project and runs covering tests on every save
type WatchCommand struct {
	load loadFunc
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(load loadFunc) *WatchCommand {
	return &WatchCommand{load: load}
}

// Execute runs the command
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	root := ""
	if len(args) > 0 {
		root = args[0]
	}
	if root != "" {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("watch root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch root %s is not a directory", root)
		}
	}

	cfg, err := wc.load(root)
	if err != nil {
		return err
	}
	svc := newServices(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(svc.scanner, svc.logger)
	if err != nil {
		return err
	}
	if err := w.Add(cfg.GetWatchRoot()); err != nil {
		return err
	}

	if cfg.StoreDriver == "sqlite" {
		if _, err := os.Stat(cfg.GetCoveragePath()); err != nil {
			svc.logger.Warnf("No coverage data at %s yet, run pytest with coverage contexts first", cfg.GetCoveragePath())
		}
	}
	svc.logger.Infof("Watching %s (%d directories) for changes to *%s files", cfg.GetWatchRoot(), w.Watched(), cfg.Suffix)

	var screen io.Writer
	if cfg.ClearScreen {
		screen = os.Stdout
	}
	d := dispatch.NewDispatcher(svc.filter, svc.runner, svc.logger, screen)

	coalescer := watcher.NewCoalescer(cfg.CoalesceWindow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Run(ctx, coalescer.Events())
	}()

	err = w.Run(ctx, coalescer.Add)
	coalescer.Close()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	svc.logger.Infof("Stopped watching %s", cfg.GetWatchRoot())
	return nil
}
