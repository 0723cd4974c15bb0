package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridian-run/meridian/schedule"
)

// JobCmd manages job definitions in the registry.
var JobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var jobAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a job definition",
	Long: `Add a job definition to the registry.

A job is either recurring (--recurrence) or dependency-triggered
(--parents); exactly one of the two must be given. Invalid definitions,
including unparsable recurrence expressions, are rejected.

Examples:
  meridian job add etl.nightly --command "/usr/bin/etl" --recurrence "R/2024-01-01T02:00:00Z/P1D"
  meridian job add report.daily --command "/usr/bin/report" --parents etl.nightly,etl.users`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, _ := cmd.Flags().GetString("command")
		owner, _ := cmd.Flags().GetString("owner")
		recurrenceText, _ := cmd.Flags().GetString("recurrence")
		timeZone, _ := cmd.Flags().GetString("time-zone")
		parents, _ := cmd.Flags().GetStringSlice("parents")

		database, cfg, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		var job schedule.Job
		switch {
		case recurrenceText != "" && len(parents) > 0:
			return fmt.Errorf("--recurrence and --parents are mutually exclusive")
		case recurrenceText != "":
			job = schedule.RecurringJob{
				Name:       args[0],
				Command:    command,
				Owner:      owner,
				Recurrence: recurrenceText,
				TimeZone:   effectiveTimeZone(timeZone, cfg),
			}
		case len(parents) > 0:
			job = schedule.DependencyJob{
				Name:    args[0],
				Command: command,
				Owner:   owner,
				Parents: parents,
			}
		default:
			return fmt.Errorf("one of --recurrence or --parents is required")
		}

		if err := schedule.NewStore(database).CreateJob(job); err != nil {
			return err
		}
		fmt.Printf("Added job %s\n", args[0])
		return nil
	},
}

var jobLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List job definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		jobs, err := schedule.NewStore(database).ListJobs()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tSCHEDULE\tCOMMAND")
		for _, job := range jobs {
			switch j := job.(type) {
			case schedule.RecurringJob:
				fmt.Fprintf(w, "%s\trecurring\t%s\t%s\n", j.Name, j.Recurrence, j.Command)
			case schedule.DependencyJob:
				fmt.Fprintf(w, "%s\tdependency\tafter %v\t%s\n", j.Name, j.Parents, j.Command)
			}
		}
		return w.Flush()
	},
}

var jobRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a job definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := schedule.NewStore(database).DeleteJob(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed job %s\n", args[0])
		return nil
	},
}

var jobReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List dependency jobs whose parents have all completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		ready, err := schedule.ReadyDependencyJobs(
			schedule.NewStore(database),
			schedule.NewExecutionStore(database),
		)
		if err != nil {
			return err
		}
		for _, name := range ready {
			fmt.Println(name)
		}
		return nil
	},
}

var jobValidateCmd = &cobra.Command{
	Use:   "validate <recurrence>",
	Short: "Validate a recurrence expression",
	Long: `Validate a recurrence expression without touching the registry.

Prints the canonical rendering on success.

Example:
  meridian job validate "R12/2024-01-01T02:00:00Z/P1D"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := schedule.RecurringJob{
			Name:       "validate",
			Command:    "true",
			Recurrence: args[0],
		}
		expr, err := job.Expression()
		if err != nil {
			return err
		}
		fmt.Println(expr.String())
		return nil
	},
}

func init() {
	jobAddCmd.Flags().String("command", "", "shell command the job runs")
	jobAddCmd.Flags().String("owner", "", "owner contact")
	jobAddCmd.Flags().String("recurrence", "", "R[n]/<start>/<period> schedule")
	jobAddCmd.Flags().String("time-zone", "", "IANA time zone for the schedule (falls back to scheduler.default_time_zone)")
	jobAddCmd.Flags().StringSlice("parents", nil, "parent job names for a dependency job")
	jobAddCmd.MarkFlagRequired("command")

	JobCmd.AddCommand(jobAddCmd)
	JobCmd.AddCommand(jobLsCmd)
	JobCmd.AddCommand(jobRmCmd)
	JobCmd.AddCommand(jobReadyCmd)
	JobCmd.AddCommand(jobValidateCmd)
}
