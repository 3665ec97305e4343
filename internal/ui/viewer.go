package ui

import "context"

// Viewer displays the coverage map in an interactive TUI
type Viewer interface {
	View(ctx context.Context) error
}
