package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcowell/sift/internal/cli"
	"github.com/jcowell/sift/internal/common"
	"github.com/jcowell/sift/internal/engine"
	"github.com/jcowell/sift/internal/storage"
	"github.com/jcowell/sift/internal/tui"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Review and categorize uncategorized transactions",
		Long: `Fetch uncategorized transactions from the ledger, ask the model for
category suggestions, and approve each one interactively. Approved
categories are committed to the ledger immediately; Ctrl+C stops the
run without touching the remaining transactions.`,
		RunE: runCategorize,
	}

	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, default: 30 days ago)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD, default: today)")
	cmd.Flags().String("ui", "plain", "approval interface (plain, tui)")
	cmd.Flags().String("db", "", "history database path (default: $HOME/.local/share/sift/history.db)")
	cmd.Flags().Bool("no-history", false, "don't record outcomes locally")

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	start, end, err := dateRange(cmd)
	if err != nil {
		return err
	}

	ledgerClient, err := createLedgerClient()
	if err != nil {
		return err
	}

	suggester, err := createSuggester()
	if err != nil {
		return err
	}

	opts := []engine.Option{}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory {
		dbPath, _ := cmd.Flags().GetString("db")
		store, storeErr := openHistory(dbPath)
		if storeErr != nil {
			// History is an audit trail, not a dependency of the run.
			slog.Warn("history disabled", "error", storeErr)
		} else {
			defer func() { _ = store.Close() }()
			opts = append(opts, engine.WithHistory(store))
		}
	}

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupts.HandleInterrupts(cmd.Context())

	var prompter engine.Prompter
	var notifier engine.Notifier

	uiMode, _ := cmd.Flags().GetString("ui")
	switch uiMode {
	case "tui":
		p := tui.NewPrompter(os.Stdout)
		prompter, notifier = p, p
	case "plain":
		p := cli.NewPrompter(os.Stdin, os.Stdout)
		prompter, notifier = p, p
	default:
		return fmt.Errorf("unknown ui %q (want plain or tui)", uiMode)
	}
	opts = append(opts, engine.WithNotifier(notifier))

	eng := engine.New(ledgerClient, suggester, prompter, opts...)
	summary, err := eng.Run(ctx, start, end)
	if err != nil {
		if errors.Is(err, common.ErrNoTransactions) {
			fmt.Println(cli.FormatInfo("Nothing to categorize in this date range."))
			return nil
		}
		if errors.Is(err, common.ErrNoCategories) {
			fmt.Println(cli.FormatWarning("The ledger has no active categories; create some first."))
			return nil
		}
		return err
	}

	fmt.Println(cli.RenderBox("Run Summary", formatSummary(summary)))
	return nil
}

func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	endStr, _ := cmd.Flags().GetString("end")
	startStr, _ := cmd.Flags().GetString("start")

	end := time.Now()
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return start, end, nil
}

func openHistory(dbPath string) (*storage.Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "sift", "history.db")
	}
	return storage.NewStore(dbPath)
}

func formatSummary(summary engine.Summary) string {
	lines := fmt.Sprintf("Reviewed:  %d of %d\nCommitted: %d\nSkipped:   %d\nFailed:    %d",
		summary.Committed+summary.Skipped+summary.Failed, summary.Total,
		summary.Committed, summary.Skipped, summary.Failed)
	if summary.Cancelled {
		lines += "\n\n" + cli.WarningStyle.Render("Run stopped early; the rest are untouched.")
	}
	return lines
}
