// Package cli provides the Cobra command structure for anchorctl.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/render"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// ErrOrphaned signals that a range did not resolve; the result has already been printed.
var ErrOrphaned = errors.New("range is orphaned")

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type globalFlags struct {
	debug  bool
	output string
	color  string
}

// NewRootCommand creates the root anchorctl command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "anchorctl",
		Short: "Inspect and test structural text anchors",
		Long: `anchorctl renders a document the way the docanchor service does and
lets you work with serialized ranges against it: find text and print its
range, resolve a stored range, or dump the node paths of the render.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch flags.output {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("invalid output %q: must be text, json or yaml", flags.output)
			}
			switch flags.color {
			case "auto", "always", "never":
			default:
				return fmt.Errorf("invalid color %q: must be auto, always or never", flags.color)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", formatText, "output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(newLocateCommand(flags))
	rootCmd.AddCommand(newResolveCommand(flags))
	rootCmd.AddCommand(newTreeCommand(flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// Logger returns the stderr logger used for diagnostics.
func Logger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "anchorctl",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// mount renders path and mounts its container on a fresh surface.
func mount(cmd *cobra.Command, flags *globalFlags, path string) (*render.Document, *anchor.Surface, error) {
	logger := Logger(cmd.ErrOrStderr(), flags.debug)

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, err := render.RenderFile(f, path)
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", path, err)
	}
	s := anchor.NewSurface()
	gen := s.Mount(doc.Container())
	logger.Debug("mounted", "file", path, "title", doc.Title, "generation", gen)
	return doc, s, nil
}
