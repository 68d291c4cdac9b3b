// Package configcmder provides the config command for managing persistent
// clausehound configuration stored in the .clausehound/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent clausehound configuration.

Configuration is stored as config.toml in the .clausehound/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  index.engine, index.path, index.fallback_sparse,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  api.listen, client.api_target,
  ask.k, ask.lambda, ask.mode,
  eval.workers

Use subcommands to get, set, or list configuration values:
  clausehound config set <key> <value>    Set a configuration value
  clausehound config get <key>            Get a configuration value
  clausehound config list                 List all configuration values

Examples:
  clausehound config set index.engine dense
  clausehound config set embedding.model nomic-embed-text
  clausehound config get ask.k
  clausehound config list`

const configShortDesc string = "Manage persistent clausehound configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
