package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
apps:
  - name: demo
    publisher: Acme
    mechanism: nsis
    silent: true
    command: ["uninstall.exe", "/S"]
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.General.CommandTimeout)
	assert.Equal(t, 2, cfg.Scheduler.ConcurrencyLimit)
	assert.True(t, cfg.Scheduler.OneLoudLimit)
	assert.True(t, cfg.Scheduler.PreferQuiet)
	assert.False(t, cfg.Scheduler.Simulate)
	assert.Equal(t, 300*time.Millisecond, cfg.Scheduler.PollInterval)
	require.Len(t, cfg.Apps, 1)
	assert.Equal(t, "demo", cfg.Apps[0].Name)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
general:
  log_level: debug
scheduler:
  concurrency_limit: 4
  one_loud_limit: false
  simulate: true
  poll_interval: 100ms
apps:
  - name: demo
    mechanism: msiexec
    command: ["msiexec", "/x", "{GUID}"]
    quiet_command: ["msiexec", "/x", "{GUID}", "/qn"]
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, 4, cfg.Scheduler.ConcurrencyLimit)
	assert.False(t, cfg.Scheduler.OneLoudLimit)
	assert.True(t, cfg.Scheduler.Simulate)
	assert.Equal(t, 100*time.Millisecond, cfg.Scheduler.PollInterval)
	assert.Equal(t, []string{"msiexec", "/x", "{GUID}", "/qn"}, cfg.Apps[0].QuietCommand)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			General: GeneralConfig{LogLevel: "info"},
			Scheduler: SchedulerConfig{
				ConcurrencyLimit: 2,
				PollInterval:     300 * time.Millisecond,
			},
			Apps: []AppConfig{
				{Name: "demo", Mechanism: "nsis", Command: []string{"uninstall.exe"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.General.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "negative command timeout",
			mutate:  func(c *Config) { c.General.CommandTimeout = -time.Second },
			wantErr: "command_timeout",
		},
		{
			name:    "negative concurrency limit",
			mutate:  func(c *Config) { c.Scheduler.ConcurrencyLimit = -1 },
			wantErr: "concurrency_limit",
		},
		{
			name:    "poll interval too small",
			mutate:  func(c *Config) { c.Scheduler.PollInterval = time.Millisecond },
			wantErr: "poll_interval",
		},
		{
			name:    "poll interval too large",
			mutate:  func(c *Config) { c.Scheduler.PollInterval = 2 * time.Minute },
			wantErr: "poll_interval",
		},
		{
			name:    "no apps",
			mutate:  func(c *Config) { c.Apps = nil },
			wantErr: "at least one app",
		},
		{
			name:    "app without name",
			mutate:  func(c *Config) { c.Apps[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name: "duplicate app names",
			mutate: func(c *Config) {
				c.Apps = append(c.Apps, c.Apps[0])
			},
			wantErr: "duplicate name",
		},
		{
			name:    "app without command",
			mutate:  func(c *Config) { c.Apps[0].Command = nil },
			wantErr: "command is required",
		},
		{
			name:    "unparseable mechanism",
			mutate:  func(c *Config) { c.Apps[0].Mechanism = "wizardry" },
			wantErr: "mechanism",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDescriptors(t *testing.T) {
	cfg := &Config{
		Apps: []AppConfig{
			{Name: "a", Publisher: "Acme", InstallPath: `C:\A`, Mechanism: "nsis", Silent: true, Command: []string{"u.exe"}},
			{Name: "b", Mechanism: "", Command: []string{"v.exe"}},
		},
	}

	descs, err := cfg.Descriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, uninstall.MechanismNsis, descs[0].Mechanism)
	assert.Equal(t, "Acme", descs[0].Publisher)
	assert.True(t, descs[0].Silent)
	// Empty mechanism degrades to unknown rather than erroring.
	assert.Equal(t, uninstall.MechanismUnknown, descs[1].Mechanism)
}
