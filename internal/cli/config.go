package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/config"
)

// configCommand creates the config command that prints the effective settings.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as TOML.

The output merges the config file over the built-in defaults and can be
saved as a starting point:

  $ railyard config > ~/.config/railyard/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := config.Encode(cmd.OutOrStdout(), cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}
