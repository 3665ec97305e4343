package commands

import (
	"os"

	"snajper/internal/config"
	"snajper/internal/coverage"
	"snajper/internal/discovery"
	"snajper/internal/execution"
	"snajper/internal/parser"
	"snajper/internal/resolver"
	"snajper/internal/selection"
	"snajper/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Watch  *WatchCommand
	Which  *WhichCommand
	Browse *BrowseCommand
}

// NewCommands creates all commands. Configuration is loaded per invocation
// because the watch root is only known once arguments are parsed.
func NewCommands() *Commands {
	return &Commands{
		Watch:  NewWatchCommand(config.Load),
		Which:  NewWhichCommand(config.Load),
		Browse: NewBrowseCommand(config.Load),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = c.Watch.Execute
	rootCmd.SilenceUsage = true

	whichCmd := &cobra.Command{
		Use:   "which <file>...",
		Short: "Show the tests that cover the given files",
		Long:  "Look the given source files up in the coverage data and print the selected tests grouped by test file, without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Which.Execute,
	}
	rootCmd.AddCommand(whichCmd)

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the coverage map interactively",
		Long:  "Display every measured file with the tests that executed it; press R to run the tests of the selected file",
		Args:  cobra.NoArgs,
		RunE:  c.Browse.Execute,
	}
	rootCmd.AddCommand(browseCmd)
}

// loadFunc loads the configuration for a watch root
type loadFunc func(watchRoot string) (*config.Config, error)

// services is the object graph shared by all commands
type services struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	store     *coverage.Index
	resolver  *resolver.Resolver
	engine    *execution.Runner
	logger    *ui.Logger
	formatter *ui.Formatter
	runner    *selection.Runner
}

func newServices(cfg *config.Config) *services {
	logger := ui.NewStderrLogger()
	formatter := ui.NewFormatter(os.Stdout)
	store := coverage.NewIndex(cfg)
	res := resolver.NewResolver(cfg.GetWatchRoot(), cfg.Suffix, discovery.NewParser())
	engine := execution.NewRunner(cfg, parser.NewPytestParser())

	return &services{
		config:    cfg,
		scanner:   discovery.NewScanner(cfg.PathsToIgnore),
		filter:    discovery.NewFilter(cfg.GetWatchRoot(), cfg.Suffix, cfg.PathsToIgnore),
		store:     store,
		resolver:  res,
		engine:    engine,
		logger:    logger,
		formatter: formatter,
		runner:    selection.NewRunner(store, res, engine, logger, formatter),
	}
}
