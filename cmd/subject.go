package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/backlog"
)

var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"subjects"},
	Short:   "Manage backlog subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a subject to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapters, _ := cmd.Flags().GetInt("chapters")
		diff, _ := cmd.Flags().GetString("difficulty")
		deadline, _ := cmd.Flags().GetString("deadline")

		d, err := backlog.ParseDifficulty(diff)
		if err != nil {
			return err
		}
		sub := backlog.Subject{Name: args[0], BacklogChapters: chapters, Difficulty: d}
		if deadline != "" {
			t, err := backlog.ParseDate(deadline)
			if err != nil {
				return fmt.Errorf("invalid deadline %q: want YYYY-MM-DD", deadline)
			}
			sub.Deadline = &t
		}

		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		added, err := e.svc.AddSubject(cmd.Context(), sub)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added.Name, added.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backlog subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		subjects := e.svc.Session().Subjects
		out := cmd.OutOrStdout()
		if len(subjects) == 0 {
			fmt.Fprintln(out, "No subjects yet. Add one with `studyplan subject add`.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-24s  %8s  %-10s  %s\n", "ID", "Name", "Chapters", "Difficulty", "Deadline")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, s := range subjects {
			deadline := "-"
			if s.Deadline != nil {
				deadline = s.Deadline.Format(backlog.DateLayout)
			}
			fmt.Fprintf(out, "%-36s  %-24s  %8d  %-10s  %s\n",
				s.ID, truncate(s.Name, 24), s.BacklogChapters, s.Difficulty, deadline)
		}
		return nil
	},
}

var subjectRemoveCmd = &cobra.Command{
	Use:     "remove <id|name>",
	Aliases: []string{"rm"},
	Short:   "Remove a subject from the backlog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		sub, err := e.svc.FindSubject(args[0])
		if err != nil {
			return err
		}
		if err := e.svc.RemoveSubject(cmd.Context(), sub.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", sub.Name)
		return nil
	},
}

func init() {
	f := subjectAddCmd.Flags()
	f.IntP("chapters", "c", 0, "Number of backlog chapters")
	f.StringP("difficulty", "d", "moderate", "Difficulty: low, moderate or high")
	f.String("deadline", "", "Deadline date (YYYY-MM-DD)")
	_ = subjectAddCmd.MarkFlagRequired("chapters")
	_ = subjectAddCmd.MarkFlagRequired("deadline")

	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectRemoveCmd)
}
