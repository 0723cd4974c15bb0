package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DBCmd manages the registry database.
var DBCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the registry database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		// openRegistry already migrates; this command just makes the
		// operation explicit and reports the resulting schema version.
		database, cfg, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		var version string
		err = database.QueryRow(
			"SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1",
		).Scan(&version)
		if err != nil {
			return err
		}
		fmt.Printf("Registry %s at schema version %s\n", cfg.Database.Path, version)
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		for _, table := range []string{"jobs", "executions"} {
			var count int
			if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
				return err
			}
			fmt.Printf("%-12s %d\n", table, count)
		}
		return nil
	},
}

func init() {
	DBCmd.AddCommand(dbMigrateCmd)
	DBCmd.AddCommand(dbStatsCmd)
}
