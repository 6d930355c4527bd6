package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/rileyhilliard/hoststat/internal/config"
	"github.com/rileyhilliard/hoststat/internal/logger"
	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/report"
	"github.com/rileyhilliard/hoststat/internal/report/dashboard"
	"github.com/rileyhilliard/hoststat/internal/supervisor"
	"github.com/rileyhilliard/hoststat/internal/worker"
	"github.com/spf13/cobra"
)

// sampleCommand is the root command's run: load config, then drive one
// sampling session to the selected sink.
func sampleCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	run := newRunFunc(cfg, probe.NewHost())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !cfg.Dashboard {
		return run(ctx, report.NewWriter(cmd.OutOrStdout(), reportOptions(cfg)))
	}

	// Hold log lines while the dashboard owns the screen.
	var held bytes.Buffer
	logger.SetOutput(&held)
	err = dashboard.Run(ctx, reportOptions(cfg), run)
	logger.SetOutput(os.Stderr)
	_, _ = held.WriteTo(cmd.ErrOrStderr())
	return err
}

// newRunFunc builds the sampling session for cfg against host.
func newRunFunc(cfg *config.Config, host *probe.Host) dashboard.RunFunc {
	scfg := supervisorConfig(cfg)
	opts := []supervisor.Option{
		supervisor.WithLogger(logger.NewEnvLogger("[supervisor]")),
	}
	if cfg.InProcess {
		spawner := supervisor.NewInProcessSpawner(
			worker.HostProbes(host),
			worker.Options{Graphics: cfg.Graphics},
			logger.NewEnvLogger("[worker]"),
		)
		opts = append(opts, supervisor.WithSpawner(spawner))
	}

	return func(ctx context.Context, sink report.Sink) error {
		_, err := supervisor.New(scfg, host, sink, opts...).Run(ctx)
		return err
	}
}

func supervisorConfig(cfg *config.Config) supervisor.Config {
	return supervisor.Config{
		Samples:       cfg.Samples,
		Delay:         cfg.DelayDuration(),
		CycleTimeout:  cfg.Timeout,
		Graphics:      cfg.Graphics,
		ShutdownGrace: cfg.ShutdownGrace,
	}
}

func reportOptions(cfg *config.Config) report.Options {
	return report.Options{
		Sections:   report.Sections{System: cfg.System, User: cfg.User},
		Graphics:   cfg.Graphics,
		Sequential: cfg.Sequential,
		Color:      !cfg.NoColor,
	}
}
