package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/locbatch/internal/report"
)

// CreateShowCommand creates the command summarizing an output file
func CreateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <output-file>",
		Short: "Summarize a translation output file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:       %s\n", args[0])
			fmt.Fprintf(out, "Timestamp:  %s\n", doc.Metadata.Timestamp)
			fmt.Fprintf(out, "Translated: %d\n", doc.Metadata.TotalItems)
			fmt.Fprintf(out, "Errors:     %d\n", doc.Metadata.Errors)
			for _, e := range doc.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			return nil
		},
	}
}
