package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridian-run/meridian/cmd/meridian/commands"
	"github.com/meridian-run/meridian/logger"
)

var (
	jsonOutput bool
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Meridian - recurring job scheduling core",
	Long: `Meridian - scheduling core for recurring and dependency-triggered jobs.

Jobs carry ISO 8601 repeating-interval schedules (R[n]/<start>/<period>).
Meridian parses them, reconciles overdue schedules against the clock
(skip-forward) and dispatches due occurrences.

Available commands:
  job     - Manage job definitions (add, ls, rm, ready, validate)
  skip    - Run the skip-forward catch-up pass over the registry
  daemon  - Run the scheduling daemon
  db      - Manage the registry database
  config  - Manage configuration
  version - Show version information

Examples:
  meridian job add etl.nightly --command "/usr/bin/etl" --recurrence "R/2024-01-01T02:00:00Z/P1D"
  meridian skip              # reconcile overdue schedules after an outage
  meridian daemon start      # run the ticker in the foreground`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.InitLogging(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON log output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")

	rootCmd.AddCommand(commands.JobCmd)
	rootCmd.AddCommand(commands.SkipCmd)
	rootCmd.AddCommand(commands.DaemonCmd)
	rootCmd.AddCommand(commands.DBCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
