package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdkit/mdreport/builder"
	"github.com/mdkit/mdreport/highlight"
)

func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in slide themes and code styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Slide themes:")
			for _, name := range builder.ThemeNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Code styles:")
			for _, name := range highlight.StyleNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}
