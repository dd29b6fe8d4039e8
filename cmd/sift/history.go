package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcowell/sift/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent categorization outcomes",
		Long:  `Display the most recent outcomes from the local run history, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openHistory(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			outcomes, err := store.RecentOutcomes(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(outcomes) == 0 {
				fmt.Println(cli.InfoStyle.Render("No history yet. Run 'sift categorize' first."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tPAYEE\tAMOUNT\tCATEGORY\tRESULT")
			for _, o := range outcomes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					o.DecidedAt.Local().Format("2006-01-02 15:04"),
					o.Payee,
					o.Amount.StringFixed(2),
					o.CategoryName,
					o.Result,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("db", "", "history database path (default: $HOME/.local/share/sift/history.db)")
	cmd.Flags().Int("limit", 20, "number of outcomes to show")

	return cmd
}
