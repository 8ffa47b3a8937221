package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boarnasia/tinyagents/pkg/cliui"
	"github.com/boarnasia/tinyagents/pkg/config"
	"github.com/boarnasia/tinyagents/pkg/dotdir"
)

const initLongDesc string = `Initialize a config file from a preset.

Creates the .tinyagents/ directory if needed and writes a config.toml
pre-filled for the named backend preset. With no preset, writes the
default configuration.

Presets:
  openai    gpt-4.1 against the OpenAI API
  ollama    llama3.2 against a local Ollama server

Examples:
  tinyagents config init
  tinyagents config init ollama`

const initShortDesc string = "Write a preset config file"

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [preset]",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			preset := ""
			if len(args) == 1 {
				preset = args[0]
			}

			return runInit(preset, configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runInit(preset, configDir string) error {
	cfg := config.NewDefaultConfig()
	if preset != "" {
		var err error
		cfg, err = config.PresetConfig(preset)
		if err != nil {
			return fmt.Errorf("%w\n\nValid presets: %s",
				err, strings.Join(config.ValidPresetNames(), ", "))
		}
	}

	dir, err := dotdir.NewManager().Ensure(configDir)
	if err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("\n  %s Wrote %s\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(cfger.GetTarget()),
	)
	return nil
}
