// Package commands implements the meridian CLI commands.
package commands

import (
	"database/sql"

	"github.com/meridian-run/meridian/config"
	"github.com/meridian-run/meridian/db"
	"github.com/meridian-run/meridian/errors"
	"github.com/meridian-run/meridian/logger"
)

// InitLogging initializes the global logger. JSON output is enabled by the
// --json flag or the log.json config key.
func InitLogging(jsonFlag bool, verbosity int) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	return logger.Initialize(jsonLogging(jsonFlag, cfg), verbosity)
}

func jsonLogging(jsonFlag bool, cfg *config.Config) bool {
	return jsonFlag || cfg.Log.JSON
}

// effectiveTimeZone resolves a job's time zone: an explicit flag value wins,
// otherwise the configured scheduler default applies. Empty means UTC.
func effectiveTimeZone(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Scheduler.DefaultTimeZone
}

// openRegistry loads configuration, opens the registry database and applies
// pending migrations. Callers own closing the handle.
func openRegistry() (*sql.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}

	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, nil, err
	}

	return database, cfg, nil
}
