package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

// Validate checks the configuration for errors and inconsistencies
func (c *Config) Validate() error {
	// Validate general settings
	if err := c.validateGeneral(); err != nil {
		return fmt.Errorf("general config: %w", err)
	}

	// Validate scheduler settings
	if err := c.validateScheduler(); err != nil {
		return fmt.Errorf("scheduler config: %w", err)
	}

	// Validate app entries
	if err := c.validateApps(); err != nil {
		return fmt.Errorf("apps: %w", err)
	}

	return nil
}

func (c *Config) validateGeneral() error {
	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	logLevel := strings.ToLower(c.General.LogLevel)
	valid := false
	for _, level := range validLogLevels {
		if logLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("log_level must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	if c.General.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative")
	}

	return nil
}

func (c *Config) validateScheduler() error {
	// The scheduler clamps the concurrency limit itself; validation
	// only rejects values that cannot have been intended.
	if c.Scheduler.ConcurrencyLimit < 0 {
		return fmt.Errorf("concurrency_limit must not be negative")
	}

	if c.Scheduler.PollInterval < 10*time.Millisecond {
		return fmt.Errorf("poll_interval must be at least 10ms")
	}
	if c.Scheduler.PollInterval > 1*time.Minute {
		return fmt.Errorf("poll_interval must not exceed 1 minute")
	}

	return nil
}

func (c *Config) validateApps() error {
	if len(c.Apps) == 0 {
		return fmt.Errorf("at least one app must be configured")
	}

	seen := make(map[string]bool, len(c.Apps))
	for i, app := range c.Apps {
		if app.Name == "" {
			return fmt.Errorf("app %d: name is required", i)
		}
		if seen[app.Name] {
			return fmt.Errorf("app %d: duplicate name %q", i, app.Name)
		}
		seen[app.Name] = true

		if len(app.Command) == 0 {
			return fmt.Errorf("app %q: command is required", app.Name)
		}
		if _, err := uninstall.ParseMechanism(app.Mechanism); err != nil {
			return fmt.Errorf("app %q: %w", app.Name, err)
		}
	}

	return nil
}

// Descriptors converts the configured app list into the scheduler's
// input form, in config order.
func (c *Config) Descriptors() ([]uninstall.Descriptor, error) {
	out := make([]uninstall.Descriptor, 0, len(c.Apps))
	for _, app := range c.Apps {
		mech, err := uninstall.ParseMechanism(app.Mechanism)
		if err != nil {
			return nil, fmt.Errorf("app %q: %w", app.Name, err)
		}
		out = append(out, uninstall.Descriptor{
			Name:         app.Name,
			Publisher:    app.Publisher,
			InstallPath:  app.InstallPath,
			Mechanism:    mech,
			Silent:       app.Silent,
			Command:      app.Command,
			QuietCommand: app.QuietCommand,
		})
	}
	return out, nil
}
