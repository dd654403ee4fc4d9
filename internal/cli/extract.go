package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdkit/mdreport/extractor"
	"github.com/mdkit/mdreport/render"
)

func (c *CLI) extractCommand() *cobra.Command {
	var (
		name   string
		output string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract an embedded attachment from a generated file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if list {
				names, err := extractor.Names(data)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}
			payload, err := extractor.ExtractNamed(data, name)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(payload)
				return err
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return err
			}
			c.Logger.Info("extracted attachment", "name", name, "file", output, "bytes", len(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", render.SourceAttachmentName, "attachment name to extract")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default stdout)`)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list attachment names instead of extracting")

	return cmd
}
