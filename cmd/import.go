package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/backlog"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import subjects and profile from a YAML backlog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")

		imp, err := backlog.LoadFile(args[0])
		if err != nil {
			return err
		}

		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Import(cmd.Context(), imp, replace); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d subject(s)", len(imp.Subjects))
		if imp.Profile != nil {
			fmt.Fprint(out, " and the study profile")
		}
		fmt.Fprintf(out, ". The backlog now has %d subject(s).\n", len(e.svc.Session().Subjects))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("replace", false, "Replace existing subjects instead of merging")
}
