package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/meridian-run/meridian/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the Meridian configuration using Viper. The result is cached
// for the lifetime of the process.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config from %s", configPath)
	}
	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("MERIDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	v.SetConfigName("meridian")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".meridian"))
	}

	// A missing config file is fine: defaults and environment carry a
	// usable configuration.
	_ = v.ReadInConfig()

	viperInstance = v
	return v
}
