package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/hoststat/internal/config"
	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newTestRoot returns a fresh root command writing to out, isolated from the
// user's home config and HOSTSTAT_* environment.
func newTestRoot(t *testing.T, out *bytes.Buffer) *cobra.Command {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			// Empty values are ignored by the loader.
			t.Setenv(strings.SplitN(kv, "=", 2)[0], "")
		}
	}
	cfgFile = ""
	t.Cleanup(func() { cfgFile = "" })

	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd
}

// effectiveConfig runs "config" with args and decodes the output.
func effectiveConfig(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	cmd.SetArgs(append([]string{"config"}, args...))
	require.NoError(t, cmd.Execute())

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	return got
}

func TestConfigCommand_Defaults(t *testing.T) {
	got := effectiveConfig(t)
	assert.Equal(t, 10, got["samples"])
	assert.Equal(t, 1, got["tdelay"])
	assert.Equal(t, "0s", got["timeout"])
	assert.Equal(t, false, got["graphics"])
}

func TestConfigCommand_Flags(t *testing.T) {
	got := effectiveConfig(t, "--samples", "3", "-g", "--timeout", "2s", "--in-process")
	assert.Equal(t, 3, got["samples"])
	assert.Equal(t, true, got["graphics"])
	assert.Equal(t, "2s", got["timeout"])
	assert.Equal(t, true, got["in_process"])
}

func TestConfigCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoststat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("samples: 4\nsequential: true\n"), 0644))

	got := effectiveConfig(t, "--config", path, "--samples", "6")
	assert.Equal(t, 6, got["samples"], "flag should beat the config file")
	assert.Equal(t, true, got["sequential"])
}

func TestRoot_PositionalArgs(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	require.NoError(t, cmd.ParseFlags([]string{"--samples", "9"}))

	cfg, err := loadConfig(cmd, []string{"5", "0.25"})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Samples, "positional samples should beat --samples")
	assert.Equal(t, 250*time.Millisecond, cfg.DelayDuration())
}

func TestRoot_InvalidPositional(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := loadConfig(cmd, []string{"many"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "'many' isn't a valid samples value")
}

func TestRoot_ZeroSamplesIsConfigError(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	cmd.SetArgs([]string{"0", "--in-process"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, out.String(), "nothing should be reported before validation passes")
}

func TestRoot_NaNDelayIsConfigError(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	cmd.SetArgs([]string{"1", "NaN", "--in-process"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "finite number of seconds, got NaN")
}

func TestRoot_TooManyArgs(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	cmd.SetArgs([]string{"1", "2", "3"})
	assert.Error(t, cmd.Execute())
}

func TestRoot_InProcessRun(t *testing.T) {
	if testing.Short() {
		t.Skip("samples the real host")
	}

	var out bytes.Buffer
	cmd := newTestRoot(t, &out)
	cmd.SetArgs([]string{"2", "0", "--in-process", "--sequential", "--no-color"})

	require.NoError(t, cmd.Execute())

	report := out.String()
	assert.Contains(t, report, "||| Sample #1 |||")
	assert.Contains(t, report, "||| End of Sample #2 |||")
	assert.Contains(t, report, "### System Information ###")
	assert.NotContains(t, report, "\033[2J", "sequential output should not clear the screen")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		contains string
	}{
		{name: "success", err: nil, want: 0},
		{name: "cancelled is quiet", err: fmt.Errorf("run: %w", context.Canceled), want: 1},
		{
			name:     "structured error",
			err:      errors.New(errors.ErrProcess, "The cpu worker exited", "Check dmesg."),
			want:     1,
			contains: "✗ The cpu worker exited",
		},
		{
			name:     "usage error",
			err:      fmt.Errorf(`unknown flag: --nope`),
			want:     1,
			contains: "hoststat --help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, exitCode(&buf, tt.err))
			if tt.contains == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["config"])
}
