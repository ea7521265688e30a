package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/doctree"
)

type treeEntry struct {
	Path  anchor.Path `json:"path" yaml:"path"`
	Kind  string      `json:"kind" yaml:"kind"`
	Label string      `json:"label" yaml:"label"`
	// MaxOffset is the largest valid boundary offset in this node.
	MaxOffset int `json:"maxOffset" yaml:"maxOffset"`
}

type treeResult struct {
	File  string      `json:"file" yaml:"file"`
	Title string      `json:"title" yaml:"title"`
	Nodes []treeEntry `json:"nodes" yaml:"nodes"`
}

func newTreeCommand(flags *globalFlags) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the anchoring paths of a rendered document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := mount(cmd, flags, args[0])
			if err != nil {
				return err
			}
			container := doc.Container()

			res := treeResult{File: args[0], Title: doc.Title}
			_ = doctree.Walk(container, func(n doctree.Node, d int) error {
				if depth > 0 && d > depth {
					return nil
				}
				label := doctree.Label(n)
				if n.Kind() == doctree.KindText {
					label = quote(n.Text(), 50)
				}
				res.Nodes = append(res.Nodes, treeEntry{
					Path:      anchor.Encode(n, container),
					Kind:      n.Kind().String(),
					Label:     label,
					MaxOffset: anchor.MaxOffset(n),
				})
				return nil
			})

			out := cmd.OutOrStdout()
			if done, err := encode(out, flags.output, res); done {
				return err
			}
			st := newStyles(flags.color, out)
			fmt.Fprintln(out, st.Label.Render(res.Title))
			for _, e := range res.Nodes {
				indent := strings.Repeat("  ", len(e.Path))
				fmt.Fprintf(out, "%s%s %s %s\n", indent, st.Path.Render(e.Path.String()), e.Label,
					st.Dim.Render(fmt.Sprintf("(max %d)", e.MaxOffset)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "limit output to this depth below the container (0 for all)")

	return cmd
}
