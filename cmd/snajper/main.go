package main

import (
	"fmt"
	"os"

	"snajper/internal/cli/commands"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "snajper [watch-root]",
		Short:   "Run only the tests that cover the file you just changed",
		Long:    `Watches a Python project and, whenever a source file is saved, looks the file up in the coverage.py data to run exactly the pytest tests that executed it.`,
		Version: version,
	}

	cmds := commands.NewCommands()
	cmds.Register(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
