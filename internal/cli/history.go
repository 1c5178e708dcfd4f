package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/locbatch/internal/ledger"
)

// CreateHistoryCommand creates the command listing recorded runs
func CreateHistoryCommand(flags *Flags) *cobra.Command {
	var limit int
	var showBatches bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List translation runs recorded in the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := viper.GetString("history.db")
			if dbPath == "" {
				dbPath = flags.HistoryDB
			}
			if dbPath == "" {
				return fmt.Errorf("no history database configured; use --history-db or history.db in the config file")
			}

			l, err := ledger.Open(dbPath)
			if err != nil {
				return err
			}
			defer l.Close()

			runs, err := l.RecentRuns(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tRUN\tMODEL\tINPUT\tBATCHES\tTRANSLATED\tERRORS")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%d\t%d/%d\t%d\n",
					r.StartedAt.Local().Format(time.DateTime), r.ID, r.Provider, r.Model,
					r.InputFile, r.Batches, r.Translated, r.SourceItems, r.Errors)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !showBatches {
				return nil
			}
			for _, r := range runs {
				records, err := l.Batches(r.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", r.ID)
				for _, b := range records {
					fmt.Fprintf(out, "  batch %d (%d entries): %s", b.Index+1, b.Entries, b.Status)
					if b.Error != "" {
						fmt.Fprintf(out, " - %s", b.Error)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&showBatches, "batches", false, "Show the outcome of every batch")

	return cmd
}
