package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent tinyagents configuration stored as
// config.toml in the .tinyagents/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Model   ModelConfig   `toml:"model"`
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
}

// ModelConfig holds the model selection and context window settings.
type ModelConfig struct {
	Name             string `toml:"name,omitempty"`
	MaxContextTokens uint   `toml:"max_context_tokens,omitempty"`
	ResponseBuffer   uint   `toml:"response_buffer,omitempty"`
	SystemPrompt     string `toml:"system_prompt,omitempty"`
}

// BackendConfig holds base URLs for the completion backends the agent can
// route a model to. Values are full URLs (scheme + host + port).
type BackendConfig struct {
	OpenAITarget string `toml:"openai_target,omitempty"`
	OllamaTarget string `toml:"ollama_target,omitempty"`
}

// LoggingConfig holds logging settings for chat sessions.
type LoggingConfig struct {
	File string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"model.name": {
		get: func(c *Config) string { return c.Model.Name },
		set: func(c *Config, v string) error { c.Model.Name = v; return nil },
	},
	"model.max_context_tokens": {
		get: func(c *Config) string {
			if c.Model.MaxContextTokens == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Model.MaxContextTokens), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for model.max_context_tokens: %w", err)
			}
			c.Model.MaxContextTokens = uint(n)
			return nil
		},
	},
	"model.response_buffer": {
		get: func(c *Config) string {
			if c.Model.ResponseBuffer == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Model.ResponseBuffer), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for model.response_buffer: %w", err)
			}
			c.Model.ResponseBuffer = uint(n)
			return nil
		},
	},
	"model.system_prompt": {
		get: func(c *Config) string { return c.Model.SystemPrompt },
		set: func(c *Config, v string) error { c.Model.SystemPrompt = v; return nil },
	},
	"backend.openai_target": {
		get: func(c *Config) string { return c.Backend.OpenAITarget },
		set: func(c *Config, v string) error { c.Backend.OpenAITarget = v; return nil },
	},
	"backend.ollama_target": {
		get: func(c *Config) string { return c.Backend.OllamaTarget },
		set: func(c *Config, v string) error { c.Backend.OllamaTarget = v; return nil },
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
}
