package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docanchor/internal/anchor"
)

type locateResult struct {
	File  string                 `json:"file" yaml:"file"`
	Text  string                 `json:"text" yaml:"text"`
	Range anchor.SerializedRange `json:"range" yaml:"range"`
}

func newLocateCommand(flags *globalFlags) *cobra.Command {
	var text string
	var nth int

	cmd := &cobra.Command{
		Use:   "locate FILE",
		Short: "Print the serialized range of some text",
		Long: `Render FILE, find an occurrence of --text in it and print the serialized
range a reader's selection of that text would be stored as.`,
		Example: `  anchorctl locate ch01.xhtml --text "bright cold day"
  anchorctl locate notes.md --text "TODO" --nth 2 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := mount(cmd, flags, args[0])
			if err != nil {
				return err
			}
			lr, err := s.Find(text, nth)
			if err != nil {
				return fmt.Errorf("locate %q (occurrence %d): %w", text, nth, err)
			}
			sr, err := s.Serialize(lr)
			if err != nil {
				return err
			}
			res := locateResult{File: args[0], Text: anchor.Text(lr), Range: sr}

			out := cmd.OutOrStdout()
			if done, err := encode(out, flags.output, res); done {
				return err
			}
			st := newStyles(flags.color, out)
			fmt.Fprintf(out, "%s %s\n", st.Label.Render("text "), quote(res.Text, 60))
			fmt.Fprintf(out, "%s %s @ %d\n", st.Label.Render("start"), st.Path.Render(sr.StartPath.String()), sr.StartOffset)
			fmt.Fprintf(out, "%s %s @ %d\n", st.Label.Render("end  "), st.Path.Render(sr.EndPath.String()), sr.EndOffset)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to find (required)")
	cmd.Flags().IntVar(&nth, "nth", 0, "zero-based occurrence to use")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
