// Package db manages the sqlite database backing the job registry.
package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/meridian-run/meridian/errors"
)

// Open opens a SQLite database at the specified path with settings suited
// to a long-running scheduler process. If logger is provided, logs database
// operations; otherwise operates silently.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "path", path)
	}
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// WAL mode allows concurrent reads during writes
	if _, err := database.Exec("PRAGMA journal_mode = WAL"); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "enable WAL mode")
	}

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}

	if _, err := database.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "set busy timeout")
	}

	if logger != nil {
		logger.Infow("Database opened",
			"path", path,
			"wal_mode", true,
			"foreign_keys", true,
		)
	}

	return database, nil
}
