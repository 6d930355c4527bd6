package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Samples)
	assert.Equal(t, 1.0, cfg.Delay)
	assert.Equal(t, time.Second, cfg.DelayDuration())
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.ShutdownGrace)
	assert.False(t, cfg.System)
	assert.False(t, cfg.User)
	assert.False(t, cfg.Graphics)
	assert.False(t, cfg.Sequential)
	assert.False(t, cfg.Dashboard)
	assert.False(t, cfg.InProcess)
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
samples: 3
tdelay: 0.5
timeout: 4s
graphics: true
user: true
shutdown_grace: 500ms
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Samples)
	assert.Equal(t, 0.5, cfg.Delay)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayDuration())
	assert.Equal(t, 4*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ShutdownGrace)
	assert.True(t, cfg.Graphics)
	assert.True(t, cfg.User)
	assert.False(t, cfg.System)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("samples: [1, 2\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("samples: 3\n"), 0644))
	t.Setenv("HOSTSTAT_SAMPLES", "7")
	t.Setenv("HOSTSTAT_IN_PROCESS", "true")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Samples)
	assert.True(t, cfg.InProcess)
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("samples", 10, "")
	fs.Float64("tdelay", 1, "")
	fs.Duration("timeout", 0, "")
	fs.Bool("graphics", false, "")
	fs.Bool("in-process", false, "")
	fs.Bool("no-color", false, "")
	return fs
}

func TestLoadWithFlags_FlagBeatsEnv(t *testing.T) {
	t.Setenv("HOSTSTAT_SAMPLES", "7")
	t.Setenv("HOSTSTAT_TDELAY", "3")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--samples", "2", "--no-color", "--timeout", "1s"}))

	cfg, err := LoadWithFlags("", fs)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Samples)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, time.Second, cfg.Timeout)
	// Unset flags fall through to the environment.
	assert.Equal(t, 3.0, cfg.Delay)
}

func TestLoadWithFlags_UnsetFlagsKeepDefaults(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := LoadWithFlags("", fs)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFind_Explicit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("samples: 1\n"), 0644))

	found, err := Find(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestFind_ExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "Specified config file not found")
}

func TestFind_Global(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	found, err := Find("")
	require.NoError(t, err)
	assert.Empty(t, found)

	dir := filepath.Join(home, GlobalConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	global := filepath.Join(dir, GlobalConfigFile)
	require.NoError(t, os.WriteFile(global, []byte("samples: 1\n"), 0644))

	found, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, global, found)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero delay", mutate: func(c *Config) { c.Delay = 0 }},
		{name: "zero samples", mutate: func(c *Config) { c.Samples = 0 }, errContains: "at least 1, got 0"},
		{name: "negative samples", mutate: func(c *Config) { c.Samples = -4 }, errContains: "at least 1, got -4"},
		{name: "negative delay", mutate: func(c *Config) { c.Delay = -0.5 }, errContains: "can't be negative, got -0.5"},
		{name: "NaN delay", mutate: func(c *Config) { c.Delay = math.NaN() }, errContains: "finite number of seconds, got NaN"},
		{name: "infinite delay", mutate: func(c *Config) { c.Delay = math.Inf(1) }, errContains: "finite number of seconds, got +Inf"},
		{name: "negative infinite delay", mutate: func(c *Config) { c.Delay = math.Inf(-1) }, errContains: "got -Inf"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, errContains: "Cycle timeout"},
		{name: "negative grace", mutate: func(c *Config) { c.ShutdownGrace = -time.Second }, errContains: "grace period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	assert.NoError(t, Validate(nil))
}

func TestYAML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 1500 * time.Millisecond
	cfg.Graphics = true

	out, err := cfg.YAML()
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, 10, got["samples"])
	assert.Equal(t, "1.5s", got["timeout"])
	assert.Equal(t, "2s", got["shutdown_grace"])
	assert.Equal(t, true, got["graphics"])

	// The output is itself a loadable config file.
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, out, 0644))
	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
