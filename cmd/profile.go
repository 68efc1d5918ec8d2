package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/backlog"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the study profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the study profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		printProfile(cmd.OutOrStdout(), e.svc.Session().Profile)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the study profile",
	Long:  "Change the study profile. Flags that are not given keep their current value.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		p := e.svc.Session().Profile
		flags := cmd.Flags()
		if flags.Changed("hours") {
			h, _ := flags.GetFloat64("hours")
			if h <= 0 {
				return backlog.ErrInvalidDailyHours
			}
			p.DailyHours = backlog.ClampDailyHours(h)
		}
		if flags.Changed("pace") {
			v, _ := flags.GetString("pace")
			if p.Pace, err = backlog.ParsePace(v); err != nil {
				return err
			}
		}
		if flags.Changed("stress") {
			v, _ := flags.GetString("stress")
			if p.Stress, err = backlog.ParseStress(v); err != nil {
				return err
			}
		}

		p, err = e.svc.SetProfile(cmd.Context(), p)
		if err != nil {
			return err
		}
		printProfile(cmd.OutOrStdout(), p)
		if res := e.svc.Session().Results; res != nil && res.Stale {
			fmt.Fprintln(cmd.OutOrStdout(), "\nThe current plan is out of date. Run `studyplan generate`.")
		}
		return nil
	},
}

func printProfile(w io.Writer, p backlog.Profile) {
	fmt.Fprintf(w, "Daily hours:  %.1f\n", p.DailyHours)
	fmt.Fprintf(w, "Pace:         %s\n", p.Pace)
	fmt.Fprintf(w, "Stress:       %s\n", p.Stress)
}

func init() {
	f := profileSetCmd.Flags()
	f.Float64("hours", 0, fmt.Sprintf("Daily study hours (clamped to %.0f-%.0f)", backlog.MinDailyHours, backlog.MaxDailyHours))
	f.String("pace", "", "Study pace: slow, moderate or fast")
	f.String("stress", "", "Stress level: low, moderate or high")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
