package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-run/meridian/config"
	"github.com/meridian-run/meridian/logger"
	"github.com/meridian-run/meridian/schedule"
)

// DaemonCmd runs the scheduling daemon.
var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scheduling daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduling daemon in the foreground",
	Long: `Start the scheduling daemon in the foreground.

On startup the daemon runs the skip-forward catch-up pass, then checks
for due jobs every tick and dispatches them. SIGINT/SIGTERM stop it
gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, cfg, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		log := logger.Named("daemon")
		ticker := schedule.NewTicker(
			schedule.NewStore(database),
			schedule.NewExecutionStore(database),
			&logDispatcher{log: log},
			tickerConfigFrom(cfg),
			log,
		)

		if err := ticker.Start(); err != nil {
			return err
		}
		fmt.Println("Meridian daemon running; Ctrl-C to stop")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Infow("Shutting down", "signal", sig.String())

		ticker.Stop()
		return nil
	},
}

func tickerConfigFrom(cfg *config.Config) schedule.TickerConfig {
	tc := schedule.DefaultTickerConfig()
	if cfg.Ticker.IntervalSeconds > 0 {
		tc.Interval = time.Duration(cfg.Ticker.IntervalSeconds) * time.Second
	}
	if cfg.Ticker.DispatchPerSecond > 0 {
		tc.DispatchPerSecond = cfg.Ticker.DispatchPerSecond
	}
	if cfg.Ticker.DispatchBurst > 0 {
		tc.DispatchBurst = cfg.Ticker.DispatchBurst
	}
	return tc
}

// logDispatcher validates the command line and logs the dispatch. A real
// execution engine (worker pool, containers) plugs in behind the same
// Dispatcher interface.
type logDispatcher struct {
	log *zap.SugaredLogger
}

func (d *logDispatcher) Dispatch(ctx context.Context, job schedule.Job) error {
	words, err := shellquote.Split(job.JobCommand())
	if err != nil {
		return err
	}
	d.log.Infow("Dispatching job",
		"job_name", job.JobName(),
		"argv", words)
	return nil
}

func init() {
	DaemonCmd.AddCommand(daemonStartCmd)
}
