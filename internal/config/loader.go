package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override (HOSTSTAT_SAMPLES, ...).
	EnvPrefix = "HOSTSTAT"
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/hoststat"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// flagKeys maps config keys to the command-line flags that set them.
var flagKeys = map[string]string{
	"samples":        "samples",
	"tdelay":         "tdelay",
	"timeout":        "timeout",
	"shutdown_grace": "shutdown-grace",
	"system":         "system",
	"user":           "user",
	"graphics":       "graphics",
	"sequential":     "sequential",
	"dashboard":      "dashboard",
	"no_color":       "no-color",
	"in_process":     "in-process",
}

// Find locates the config file:
// 1. Explicit path (from --config flag), which must exist
// 2. ~/.config/hoststat/config.yaml
//
// Returns the path to the config file, or empty string if there is none.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

// Load reads config from path (may be empty) merged with the environment
// and defaults.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with flags layered on top. Only flags the user set
// override the other sources.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Create "+filepath.Join("~", GlobalConfigDir, GlobalConfigFile)+" or pass --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind --"+name, "")
				}
			}
		}
	}

	return parseConfig(v, path)
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides are seen by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("samples", d.Samples)
	v.SetDefault("tdelay", d.Delay)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("shutdown_grace", d.ShutdownGrace)
	v.SetDefault("system", d.System)
	v.SetDefault("user", d.User)
	v.SetDefault("graphics", d.Graphics)
	v.SetDefault("sequential", d.Sequential)
	v.SetDefault("dashboard", d.Dashboard)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("in_process", d.InProcess)
}
