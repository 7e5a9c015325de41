package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spacereport",
	Short: "Task reporting across chat spaces",
	Long: `spacereport collects task activity from chat spaces and turns it into
per-person, per-space reports: who was assigned what, who completed what,
and who handed work out.

Run "spacereport auth" once to authenticate, then "spacereport report" for
the previous month's numbers, or "spacereport serve" to run the dashboard
backend.`,
	SilenceUsage: true,
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
