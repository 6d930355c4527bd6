package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/hoststat/internal/config"
	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/spf13/cobra"
)

// cfgFile is the --config flag value.
var cfgFile string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hoststat [samples [tdelay]]",
		Short: "Sample memory, CPU and logged-in sessions",
		Long: `Sample this host's memory, CPU utilization and logged-in sessions.

A supervisor process starts three workers, one per resource. Every cycle it
asks each worker for a fresh sample, waits until all three have answered on a
shared doorbell pipe, and redraws the report. After the last cycle it prints
the system information and shuts the workers down.

Examples:
  hoststat                 10 samples, one second apart
  hoststat 5 0.5           5 samples, half a second apart
  hoststat -g --user       sessions only, with graphics
  hoststat --sequential    append frames instead of redrawing`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sampleCommand(cmd, args)
		},
	}

	d := config.DefaultConfig()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/"+config.GlobalConfigDir+"/"+config.GlobalConfigFile+")")

	f := cmd.PersistentFlags()
	f.Int("samples", d.Samples, "number of samples to take")
	f.Float64("tdelay", d.Delay, "seconds between samples")
	f.Duration("timeout", d.Timeout, "bound on waiting for one cycle (0 waits forever)")
	f.Duration("shutdown-grace", d.ShutdownGrace, "how long workers get to exit before they are killed")
	f.Bool("system", false, "show only the memory and CPU sections")
	f.Bool("user", false, "show only the sessions section")
	f.BoolP("graphics", "g", false, "add graphics to the memory and CPU rows")
	f.Bool("sequential", false, "append frames instead of refreshing the screen")
	f.Bool("dashboard", false, "show an interactive dashboard")
	f.Bool("in-process", false, "run workers as goroutines instead of child processes")
	f.Bool("no-color", false, "disable colored output")
	_ = f.MarkHidden("shutdown-grace")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// Execute runs the root command and exits the process with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(rootCmd.ErrOrStderr(), err))
}

// exitCode reports err on w and returns the process exit status.
// An interrupted run exits 1 without a message.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if stderrors.Is(err, context.Canceled) {
		return 1
	}
	if errors.CodeOf(err) == "" {
		// Usage errors from cobra and pflag.
		err = errors.New(errors.ErrConfig, err.Error(), "Run 'hoststat --help' for usage.")
	}
	fmt.Fprint(w, err.Error())
	return 1
}

// loadConfig merges the config file, environment and flags. Positional
// arguments win over everything else.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	positional := []string{"samples", "tdelay"}
	for i, arg := range args {
		if err := cmd.Flags().Set(positional[i], arg); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a valid %s value", arg, positional[i]),
				"Usage: hoststat [samples [tdelay]], e.g. hoststat 5 0.5")
		}
	}

	path, err := config.Find(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithFlags(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
