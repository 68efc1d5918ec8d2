package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/weekplan"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the planner over the current backlog",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.Generate(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printRecovery(out, res)
		fmt.Fprintln(out)
		printAllocation(out, res)
		fmt.Fprintln(out)
		printPlan(out, res.Plan)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the current weekly plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := currentResults(e.svc)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Stale {
			fmt.Fprintln(out, "Note: subjects or profile changed since this plan was generated.")
			fmt.Fprintln(out)
		}
		printPlan(out, res.Plan)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <day> <task>",
	Short: "Advance a task through Pending → Completed → Missed → Partial",
	Long: "Advance a task's status. <day> is a day number (1-7) or day ID; " +
		"<task> is a task number within that day (as shown by `plan`) or task ID.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := currentResults(e.svc)
		if err != nil {
			return err
		}
		dayID, taskID, err := resolveTask(res.Plan, args[0], args[1])
		if err != nil {
			return err
		}
		task, m, err := e.svc.ToggleTask(cmd.Context(), dayID, taskID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s → %s\n\n", task.Label, task.Status)
		printMetrics(out, m)
		return nil
	},
}

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Move missed tasks into the coming days",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		moved, m, err := e.svc.Rebalance(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if moved == 0 {
			fmt.Fprintln(out, "Nothing to rebalance.")
			return nil
		}
		fmt.Fprintf(out, "Moved %d missed task(s). Next plan load reduced to %.0f%%.\n\n",
			moved, adaptive.RebalancePenaltyFactor*100)
		printMetrics(out, m)
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show recovery difficulty, allocation and adaptive metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := currentResults(e.svc)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printRecovery(out, res)
		fmt.Fprintln(out)
		printAllocation(out, res)
		fmt.Fprintln(out)
		printMetrics(out, res.Adaptive)
		return nil
	},
}

func currentResults(svc *planner.Service) (planner.Results, error) {
	res := svc.Session().Results
	if res == nil {
		return planner.Results{}, fmt.Errorf("%w: run `studyplan generate` first", planner.ErrNoResults)
	}
	return *res, nil
}

// resolveTask maps 1-based day/task numbers or raw IDs to plan IDs.
func resolveTask(plan weekplan.Plan, dayRef, taskRef string) (string, string, error) {
	dayIdx := plan.DayIndex(dayRef)
	if dayIdx < 0 {
		n, err := strconv.Atoi(dayRef)
		if err != nil || n < 1 || n > len(plan.Days) {
			return "", "", fmt.Errorf("%w: %q", adaptive.ErrDayNotFound, dayRef)
		}
		dayIdx = n - 1
	}
	day := plan.Days[dayIdx]

	for _, t := range day.Tasks {
		if t.ID == taskRef {
			return day.ID, t.ID, nil
		}
	}
	n, err := strconv.Atoi(taskRef)
	if err != nil || n < 1 || n > len(day.Tasks) {
		return "", "", fmt.Errorf("%w: %q on %s", adaptive.ErrTaskNotFound, taskRef, day.Date.Format("Mon Jan 2"))
	}
	t := day.Tasks[n-1]
	if t.IsBuffer() {
		return "", "", fmt.Errorf("task %d is buffer time and has no status", n)
	}
	return day.ID, t.ID, nil
}

func printRecovery(w io.Writer, res planner.Results) {
	r := res.Recovery
	fmt.Fprintf(w, "Recovery difficulty: %d/100 (%s)\n", r.DifficultyScore, r.Category)
	fmt.Fprintf(w, "  %s\n", r.Message)
	fmt.Fprintf(w, "  Total pressure %.2f against %.1fh weekly capacity (load ratio %.2f)\n",
		r.TotalPressure, r.WeeklyCapacity, r.LoadRatio)
}

func printAllocation(w io.Writer, res planner.Results) {
	a := res.Allocation
	fmt.Fprintf(w, "Daily allocation: %.2fh usable of %.2fh adjusted, %.2fh buffer\n",
		a.UsableHours, a.AdjustedCapacity, a.BufferHours)
	fmt.Fprintf(w, "%-4s  %-24s  %-8s  %-10s  %7s  %5s  %s\n", "Rank", "Subject", "Tier", "Urgency", "Hours", "Share", "Deadline")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, s := range res.Subjects {
		deadline := "-"
		if s.Deadline != nil {
			deadline = fmt.Sprintf("%s (%dd)", s.Deadline.Format(backlog.DateLayout), s.DaysRemaining)
		}
		fmt.Fprintf(w, "%-4d  %-24s  %-8s  %-10s  %6.2fh  %4d%%  %s\n",
			s.PriorityRank, truncate(s.Name, 24), s.PriorityTier, s.UrgencyLabel,
			s.AllocatedHours, s.AllocationPercent, deadline)
	}
	if a.HeaviestSubject != "" {
		fmt.Fprintf(w, "Heaviest load: %s\n", a.HeaviestSubject)
	}
}

func printPlan(w io.Writer, plan weekplan.Plan) {
	for i, d := range plan.Days {
		fmt.Fprintf(w, "Day %d  %s  %s · %d/%d min\n", i+1, d.Date.Format("Mon Jan 2"),
			d.Intensity, d.TotalMinutes, d.CapacityMinutes)
		if len(d.Tasks) == 0 {
			fmt.Fprintln(w, "   (nothing scheduled)")
		}
		for j, t := range d.Tasks {
			status := t.Status.String()
			switch {
			case t.IsBuffer():
				status = ""
			case t.Rescheduled:
				status = "Rescheduled"
			}
			fmt.Fprintf(w, "  %2d. %-40s %4d min  %s\n", j+1, truncate(t.Label, 40), t.Minutes, status)
		}
	}
	if plan.EstimatedRecoveryDays > 0 {
		fmt.Fprintf(w, "\nEstimated recovery: %d days at this pace.\n", plan.EstimatedRecoveryDays)
	}
}

func printMetrics(w io.Writer, m adaptive.Metrics) {
	fmt.Fprintf(w, "Completion:        %.0f%% (%d done, %d missed, %d partial of %d)\n",
		m.CompletionRate, m.CompletedTasks, m.MissedTasks, m.PartialTasks, m.TotalTasks)
	fmt.Fprintf(w, "Stress trend:      %s\n", m.StressTrend)
	fmt.Fprintf(w, "Burnout risk:      %s\n", yesNo(m.BurnoutRisk))
	fmt.Fprintf(w, "Load adjustment:   %.2f\n", m.LoadAdjustmentFactor)
	if !m.ProjectedRecoveryDate.IsZero() {
		fmt.Fprintf(w, "Projected finish:  %s\n", m.ProjectedRecoveryDate.Format(backlog.DateLayout))
	}
	if m.MostChallengingSubject != "" {
		fmt.Fprintf(w, "Most challenging:  %s\n", m.MostChallengingSubject)
	}
	if m.RebalanceAvailable {
		fmt.Fprintln(w, "Missed tasks can be moved forward with `studyplan rebalance`.")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
