package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "meridian.db")

	v.SetDefault("ticker.interval_seconds", 1)
	v.SetDefault("ticker.dispatch_per_second", 10.0)
	v.SetDefault("ticker.dispatch_burst", 10)

	v.SetDefault("scheduler.default_time_zone", "")

	v.SetDefault("log.json", false)
}

// Default returns the configuration with every default applied and no file
// or environment input.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	// Unmarshal over pure defaults cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}
