package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docanchor/internal/anchor"
)

type segmentInfo struct {
	Path  anchor.Path `json:"path" yaml:"path"`
	Start int         `json:"start" yaml:"start"`
	End   int         `json:"end" yaml:"end"`
	Text  string      `json:"text" yaml:"text"`
}

type resolveResult struct {
	File     string        `json:"file" yaml:"file"`
	State    string        `json:"state" yaml:"state"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Segments []segmentInfo `json:"segments,omitempty" yaml:"segments,omitempty"`
}

func newResolveCommand(flags *globalFlags) *cobra.Command {
	var rangeJSON string

	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Resolve a serialized range against a document",
		Long: `Render FILE and resolve a serialized range against it. Offsets that
overshoot their node are clamped; a path that no longer exists orphans the
range and the command exits non-zero.`,
		Example: `  anchorctl resolve ch01.xhtml --range '{"startContainerPath":[0,0],"startOffset":9,"endContainerPath":[0,0],"endOffset":24}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sr anchor.SerializedRange
			if err := json.Unmarshal([]byte(rangeJSON), &sr); err != nil {
				return fmt.Errorf("parse --range: %w", err)
			}

			doc, s, err := mount(cmd, flags, args[0])
			if err != nil {
				return err
			}

			res := resolveResult{File: args[0], State: "resolved"}
			lr, err := s.Deserialize(sr)
			switch {
			case errors.Is(err, anchor.ErrPathNotFound):
				res.State = "orphaned"
				res.Error = err.Error()
			case err != nil:
				return err
			default:
				res.Text = anchor.Text(lr)
				for _, seg := range anchor.Segments(lr) {
					res.Segments = append(res.Segments, segmentInfo{
						Path:  anchor.Encode(seg.Node, doc.Container()),
						Start: seg.Start,
						End:   seg.End,
						Text:  seg.Text(),
					})
				}
			}

			out := cmd.OutOrStdout()
			done, encErr := encode(out, flags.output, res)
			if !done {
				st := newStyles(flags.color, out)
				if res.Error != "" {
					fmt.Fprintf(out, "%s %s\n", st.Failure.Render("orphaned"), res.Error)
				} else {
					fmt.Fprintf(out, "%s %s\n", st.Success.Render("resolved"), quote(res.Text, 60))
					for _, seg := range res.Segments {
						fmt.Fprintf(out, "  %s [%d:%d] %s\n", st.Path.Render(seg.Path.String()), seg.Start, seg.End, st.Dim.Render(quote(seg.Text, 40)))
					}
				}
			}
			if encErr != nil {
				return encErr
			}
			if res.Error != "" {
				return ErrOrphaned
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rangeJSON, "range", "r", "", "serialized range as JSON (required)")
	_ = cmd.MarkFlagRequired("range")

	return cmd
}
