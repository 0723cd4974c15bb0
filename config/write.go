package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/meridian-run/meridian/errors"
)

// WriteDefault writes the default configuration as TOML to path, refusing
// to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}

	encoded, err := toml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "encode default config")
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return errors.Wrapf(err, "write config file %s", path)
	}
	return nil
}
