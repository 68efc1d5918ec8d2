package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Backlog recovery planner",
	Long: "studyplan turns a backlog of overdue chapters into a prioritized weekly " +
		"study plan and adapts it as tasks are completed or missed.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (overrides STUDYPLAN_CONFIG)")
	pf.String("db", "", "Path to SQLite database file (overrides STUDYPLAN_DB)")
	pf.String("store", "", "Session store: sqlite, redis or memory")
	pf.String("session", "", "Session key to plan against")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rebalanceCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
