package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/report"
	"github.com/verte-zerg/seedaudit/internal/store"
)

var historyLast int

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded audit runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath(env))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), runs)
}
