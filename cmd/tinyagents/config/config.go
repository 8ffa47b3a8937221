// Package configcmder provides the config command for managing persistent
// tinyagents configuration stored in the .tinyagents/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent tinyagents configuration.

Configuration is stored as config.toml in the .tinyagents/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  model.name, model.max_context_tokens, model.response_buffer,
  model.system_prompt,
  backend.openai_target, backend.ollama_target,
  logging.file

Use subcommands to get, set, list, or initialize configuration values:
  tinyagents config set <key> <value>   Set a configuration value
  tinyagents config get <key>           Get a configuration value
  tinyagents config list                List all configuration values
  tinyagents config init [preset]       Write a preset config file

Examples:
  tinyagents config set model.name llama3.2
  tinyagents config set model.max_context_tokens 32000
  tinyagents config get backend.ollama_target
  tinyagents config list`

const configShortDesc string = "Manage persistent tinyagents configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}
