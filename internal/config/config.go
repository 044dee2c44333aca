package config

import "time"

// Config represents the complete application configuration
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Apps      []AppConfig     `mapstructure:"apps"`
}

// GeneralConfig contains global application settings
type GeneralConfig struct {
	LogLevel       string        `mapstructure:"log_level"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// SchedulerConfig controls how the removal batch is dispatched
type SchedulerConfig struct {
	ConcurrencyLimit int           `mapstructure:"concurrency_limit"`
	OneLoudLimit     bool          `mapstructure:"one_loud_limit"`
	PreferQuiet      bool          `mapstructure:"prefer_quiet"`
	Simulate         bool          `mapstructure:"simulate"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
}

// AppConfig describes one application to remove
type AppConfig struct {
	Name         string   `mapstructure:"name"`
	Publisher    string   `mapstructure:"publisher"`
	InstallPath  string   `mapstructure:"install_path"`
	Mechanism    string   `mapstructure:"mechanism"`
	Silent       bool     `mapstructure:"silent"`
	Command      []string `mapstructure:"command"`
	QuietCommand []string `mapstructure:"quiet_command"`
}
