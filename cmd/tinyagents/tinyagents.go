// Package tinyagentscmder
package tinyagentscmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/boarnasia/tinyagents/cmd/tinyagents/chat"
	configcmder "github.com/boarnasia/tinyagents/cmd/tinyagents/config"
	versioncmder "github.com/boarnasia/tinyagents/cmd/version"
)

const tinyagentsLongDesc string = `Tiny Agents is a minimal tool-calling agent for MCP servers.

Start a chat session with one or more MCP server scripts:
  tinyagents chat servers/filesystem.py
  tinyagents chat servers/*.py --model llama3.2

Manage configuration with:
  tinyagents config set model.name gpt-4.1
  tinyagents config list`

const tinyagentsShortDesc string = "Tiny Agents - MCP tool-calling agent"

func NewTinyagentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tinyagents",
		Short: tinyagentsShortDesc,
		Long:  tinyagentsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .tinyagents/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
