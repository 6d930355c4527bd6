package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective hoststat configuration, merged from flags,
// HOSTSTAT_* environment variables, the config file and defaults.
type Config struct {
	// Samples is the number of sampling cycles.
	Samples int `yaml:"samples" mapstructure:"samples"`

	// Delay is the pause between cycles, in seconds.
	Delay float64 `yaml:"tdelay" mapstructure:"tdelay"`

	// Timeout bounds the wait for one cycle's results (0 = unbounded).
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ShutdownGrace is how long workers get to exit before being killed.
	ShutdownGrace time.Duration `yaml:"shutdown_grace" mapstructure:"shutdown_grace"`

	// Report sections and presentation.
	System     bool `yaml:"system" mapstructure:"system"`
	User       bool `yaml:"user" mapstructure:"user"`
	Graphics   bool `yaml:"graphics" mapstructure:"graphics"`
	Sequential bool `yaml:"sequential" mapstructure:"sequential"`
	Dashboard  bool `yaml:"dashboard" mapstructure:"dashboard"`
	NoColor    bool `yaml:"no_color" mapstructure:"no_color"`

	// InProcess runs the workers as goroutines instead of child processes.
	InProcess bool `yaml:"in_process" mapstructure:"in_process"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Samples:       10,
		Delay:         1,
		Timeout:       0,
		ShutdownGrace: 2 * time.Second,
	}
}

// DelayDuration returns Delay as a time.Duration.
func (c *Config) DelayDuration() time.Duration {
	return time.Duration(c.Delay * float64(time.Second))
}

// yamlView renders durations as strings ("1.5s") instead of nanoseconds.
type yamlView struct {
	Samples       int     `yaml:"samples"`
	Delay         float64 `yaml:"tdelay"`
	Timeout       string  `yaml:"timeout"`
	ShutdownGrace string  `yaml:"shutdown_grace"`
	System        bool    `yaml:"system"`
	User          bool    `yaml:"user"`
	Graphics      bool    `yaml:"graphics"`
	Sequential    bool    `yaml:"sequential"`
	Dashboard     bool    `yaml:"dashboard"`
	NoColor       bool    `yaml:"no_color"`
	InProcess     bool    `yaml:"in_process"`
}

// YAML renders the configuration in config file format.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(yamlView{
		Samples:       c.Samples,
		Delay:         c.Delay,
		Timeout:       c.Timeout.String(),
		ShutdownGrace: c.ShutdownGrace.String(),
		System:        c.System,
		User:          c.User,
		Graphics:      c.Graphics,
		Sequential:    c.Sequential,
		Dashboard:     c.Dashboard,
		NoColor:       c.NoColor,
		InProcess:     c.InProcess,
	})
}
