package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent planner actions for this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		action, _ := cmd.Flags().GetString("action")

		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.requireEvents()
		if err != nil {
			return err
		}
		list, err := events.QueryPlanEvents(cmd.Context(), store.QueryOpts{
			Limit:      limit,
			SessionKey: e.svc.Key(),
			Action:     action,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No planner activity recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %6s  %5s  %s\n",
			"ID", "Timestamp", "Action", "Done", "Load", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, ev := range list {
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %5.0f%%  %5.2f  %s\n",
				ev.ID,
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Action,
				ev.CompletionRate,
				ev.LoadFactor,
				ev.Detail,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().StringP("action", "a", "", "Filter by action (generate, toggle, rebalance, import, reset)")
}
