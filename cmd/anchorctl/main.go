// Package main is the entry point for the anchorctl CLI.
package main

import (
	"errors"
	"os"

	"github.com/dgallion1/docanchor/internal/cli"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := rootCmd.Execute(); err != nil {
		// An orphaned range has already been reported on stdout.
		if !errors.Is(err, cli.ErrOrphaned) {
			cli.Logger(os.Stderr, false).Error("command failed", "error", err)
		}
		return 1
	}
	return 0
}
