package cli

import (
	"fmt"

	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration a run would use, after merging flags,
HOSTSTAT_* environment variables, the config file and defaults.

The output is valid config file YAML.

Examples:
  hoststat config
  hoststat config --samples 3 > ~/.config/hoststat/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render the configuration", "")
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
