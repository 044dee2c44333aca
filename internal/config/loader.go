package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper for env vars
	v.SetEnvPrefix("APPSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Determine config file path
	if configPath == "" {
		configPath = os.Getenv("APPSWEEP_CONFIG")
	}
	if configPath == "" {
		// Try default locations
		defaultPaths := []string{"config.yaml", "config.yml", "/app/config.yaml"}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	// Read config file if found
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}
	// If no file found, continue with defaults and env vars

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options
func setDefaults(v *viper.Viper) {
	// General defaults
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.command_timeout", 0*time.Second) // 0 = unlimited

	// Scheduler defaults
	v.SetDefault("scheduler.concurrency_limit", 2)
	v.SetDefault("scheduler.one_loud_limit", true)
	v.SetDefault("scheduler.prefer_quiet", true)
	v.SetDefault("scheduler.simulate", false)
	v.SetDefault("scheduler.poll_interval", 300*time.Millisecond)

	// Apps - empty by default
	v.SetDefault("apps", []AppConfig{})
}
