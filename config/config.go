// Package config manages Meridian configuration via Viper, from TOML files
// and MERIDIAN_-prefixed environment variables.
package config

// Config is the root configuration for the scheduler.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" toml:"database"`
	Ticker    TickerConfig    `mapstructure:"ticker" toml:"ticker"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" toml:"scheduler"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
}

// DatabaseConfig configures the job registry database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// TickerConfig configures the scheduling loop.
type TickerConfig struct {
	IntervalSeconds   int     `mapstructure:"interval_seconds" toml:"interval_seconds"`
	DispatchPerSecond float64 `mapstructure:"dispatch_per_second" toml:"dispatch_per_second"`
	DispatchBurst     int     `mapstructure:"dispatch_burst" toml:"dispatch_burst"`
}

// SchedulerConfig configures schedule interpretation.
type SchedulerConfig struct {
	// DefaultTimeZone is used for jobs that do not name one. Empty means UTC.
	DefaultTimeZone string `mapstructure:"default_time_zone" toml:"default_time_zone"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}
