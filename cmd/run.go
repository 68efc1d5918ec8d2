package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, envOptions{quiet: true, withLLM: true})
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(cmd.Context(), app.Options{
		Service:   e.svc,
		Coach:     e.coach(),
		EventRepo: e.events,
	})
}
