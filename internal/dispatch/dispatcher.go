// Package dispatch turns change events into selection cycles, one at a time.
package dispatch

import (
	"context"
	"errors"
	"io"

	"snajper/internal/discovery"
	"snajper/internal/domain"
	"snajper/internal/selection"
	"snajper/internal/ui"
)

// Dispatcher routes change events to the selection runner. Events are handled
// sequentially: a change arriving during a run waits for that run to finish.
type Dispatcher struct {
	filter *discovery.Filter
	runner *selection.Runner
	logger *ui.Logger
	screen io.Writer
}

// NewDispatcher creates a new Dispatcher. When screen is non-nil it is cleared
// before every cycle.
func NewDispatcher(filter *discovery.Filter, runner *selection.Runner, logger *ui.Logger, screen io.Writer) *Dispatcher {
	return &Dispatcher{filter: filter, runner: runner, logger: logger, screen: screen}
}

// Handle processes a single event. It reports whether a selection cycle ran.
// Errors are logged and never stop the caller's loop.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.ChangeEvent) bool {
	if ev.IsDir || !d.filter.Accept(ev.Path) {
		return false
	}

	switch ev.Kind {
	case domain.Deleted:
		d.logger.Infof("File deleted: %s", ev.Path)
		return false
	case domain.Moved:
		d.logger.Infof("File moved: %s", ev.Path)
		return false
	}

	if d.screen != nil {
		ui.ClearScreen(d.screen)
	}
	d.logger.Infof("File modified: %s", ev.Path)

	if _, _, err := d.runner.Run(ctx, ev.Path); err != nil {
		if errors.Is(err, context.Canceled) {
			return true
		}
		d.logger.Errorf("%v", err)
	}
	return true
}

// Run handles events until the channel is closed or ctx is done
func (d *Dispatcher) Run(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Handle(ctx, ev)
		}
	}
}
