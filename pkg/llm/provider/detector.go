package provider

import (
	"github.com/boarnasia/tinyagents/pkg/llm/provider/ollama"
	"github.com/boarnasia/tinyagents/pkg/llm/provider/openai"
)

// Targets holds the endpoint overrides used when constructing backends.
// Zero values select each backend's default endpoint.
type Targets struct {
	OpenAI string
	Ollama string
}

// ForModel returns the backend serving the given model name. OpenAI model
// families (gpt-*, chatgpt-*, o-series) go to the OpenAI backend; everything
// else falls through to the local Ollama backend.
func ForModel(model string, targets Targets) Backend {
	candidates := []Backend{
		openai.New(openai.Config{BaseURL: targets.OpenAI, Model: model}),
	}
	for _, b := range candidates {
		if b.CanHandle(model) {
			return b
		}
	}
	return ollama.New(ollama.Config{BaseURL: targets.Ollama, Model: model})
}
