package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcowell/sift/internal/cli"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the ledger's active categories",
		Long:  `Display the active categories suggestions are matched against. Archived categories and groups are excluded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := createLedgerClient()
			if err != nil {
				return err
			}

			categories, err := client.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No active categories in the ledger."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			return w.Flush()
		},
	}
}
