package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{
		"TASKDECK_DATABASE_DRIVER",
		"TASKDECK_DATABASE_DSN",
		"TASKDECK_LOGGING_LEVEL",
		"TASKDECK_TUI_THEME",
		"TASKDECK_REFRESH_PRIMARY_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// loadFile loads configuration from an explicit file through the public
// Loader path.
func loadFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

func TestLoaderReadsFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, map[string]any{
		"database": map[string]any{
			"driver": "sqlite",
			"dsn":    "/tmp/tasks.db",
		},
		"refresh": map[string]any{
			"primary_interval":   "2s",
			"secondary_interval": "750ms",
		},
		"tui": map[string]any{"theme": "red"},
	})

	cfg, err := loadFile(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "/tmp/tasks.db", cfg.Database.DSN)
	require.Equal(t, 2*time.Second, cfg.Refresh.PrimaryInterval)
	require.Equal(t, 750*time.Millisecond, cfg.Refresh.SecondaryInterval)
	require.Equal(t, "red", cfg.TUI.Theme)
	require.Equal(t, 4, cfg.Database.MaxOpenConns)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, map[string]any{
		"database": map[string]any{"driver": "mysql", "dsn": "deck:pw@tcp(file)/tasks"},
	})
	t.Setenv("TASKDECK_DATABASE_DSN", "deck:pw@tcp(env)/tasks")
	t.Setenv("TASKDECK_TUI_THEME", "indigo")

	cfg, err := loadFile(path)
	require.NoError(t, err)
	require.Equal(t, "deck:pw@tcp(env)/tasks", cfg.Database.DSN)
	require.Equal(t, "indigo", cfg.TUI.Theme)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TASKDECK_DATABASE_DSN", "deck:pw@tcp(env)/tasks")

	fs := pflag.NewFlagSet("taskdeck", pflag.ContinueOnError)
	fs.String("dsn", "", "")
	fs.String("theme", "", "")
	fs.Duration("primary-interval", 0, "")
	require.NoError(t, fs.Parse([]string{"--dsn", "deck:pw@tcp(flag)/tasks", "--primary-interval", "3s"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlags(fs))
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, "deck:pw@tcp(flag)/tasks", cfg.Database.DSN)
	require.Equal(t, 3*time.Second, cfg.Refresh.PrimaryInterval)
	require.Equal(t, "blue", cfg.TUI.Theme)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateEnv(t)
	_, err := loadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRequiresDSN(t *testing.T) {
	isolateEnv(t)
	_, err := NewLoader().Load()
	require.ErrorContains(t, err, "database.dsn is required")
}

func TestLoadExpandsTildeInSQLitePath(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, map[string]any{
		"database": map[string]any{"driver": "sqlite", "dsn": "~/tasks.db"},
	})

	cfg, err := loadFile(path)
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	require.Equal(t, filepath.Join(home, "tasks.db"), cfg.Database.DSN)
	require.Equal(t, filepath.Join(home, "state", "taskdeck", "taskdeck.log"), cfg.Logging.File)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Database.DSN = "deck@tcp(localhost)/tasks"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"pool", func(c *Config) { c.Database.MaxOpenConns = 0 }, "database.max_open_conns"},
		{"primary", func(c *Config) { c.Refresh.PrimaryInterval = 10 * time.Millisecond }, "refresh.primary_interval"},
		{"secondary", func(c *Config) { c.Refresh.SecondaryInterval = 0 }, "refresh.secondary_interval"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"theme", func(c *Config) { c.TUI.Theme = "neon" }, "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
