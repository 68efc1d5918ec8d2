package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/coach"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Get study advice for the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{withLLM: true})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := currentResults(e.svc)
		if err != nil {
			return err
		}
		advice := e.coach().Advise(cmd.Context(), res)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, advice.Summary)
		fmt.Fprintln(out)
		for _, tip := range advice.FocusTips {
			fmt.Fprintf(out, "  • %s\n", tip)
		}
		if advice.Warning != "" {
			fmt.Fprintf(out, "\n⚠ %s\n", advice.Warning)
		}
		if advice.Source == coach.SourceLLM {
			fmt.Fprintf(out, "\n(advice from %s)\n", advice.Model)
		}
		return nil
	},
}
