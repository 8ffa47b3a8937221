package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/boarnasia/tinyagents/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the TINYAGENTS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (TINYAGENTS_MODEL_NAME, TINYAGENTS_LOGGING_FILE, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: TINYAGENTS_MODEL_NAME, TINYAGENTS_BACKEND_OLLAMA_TARGET, etc.
	v.SetEnvPrefix("TINYAGENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Model
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.max_context_tokens", d.Model.MaxContextTokens)
	v.SetDefault("model.response_buffer", d.Model.ResponseBuffer)
	v.SetDefault("model.system_prompt", d.Model.SystemPrompt)

	// Backend
	v.SetDefault("backend.openai_target", d.Backend.OpenAITarget)
	v.SetDefault("backend.ollama_target", d.Backend.OllamaTarget)

	// Logging
	v.SetDefault("logging.file", d.Logging.File)
}
