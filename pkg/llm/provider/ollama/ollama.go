// Package ollama implements the provider Backend against a local Ollama
// server's OpenAI-compatible chat completions endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

const (
	// DefaultBaseURL is the default local Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	completionsPath = "/v1/chat/completions"
)

// Backend calls Ollama's OpenAI-compatible chat endpoint.
type Backend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config holds construction options for the Ollama backend.
type Config struct {
	// BaseURL is the Ollama server URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the model name sent with every request.
	Model string
}

// New creates an Ollama backend.
func New(cfg Config) *Backend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Backend{
		baseURL: baseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			// Local models can be slow on first load.
			Timeout: 5 * time.Minute,
		},
	}
}

func (b *Backend) Name() string {
	return "ollama"
}

// CanHandle accepts any model name; Ollama is the fallback backend for
// models no other backend claims.
func (b *Backend) CanHandle(_ string) bool {
	return true
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []llm.Message    `json:"messages"`
	Tools    []llm.ToolSchema `json:"tools,omitempty"`
	Stream   bool             `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []llm.ToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request.
func (b *Backend) Complete(ctx context.Context, messages []llm.Message, tools []llm.ToolSchema) (*llm.Completion, error) {
	reqBody := chatRequest{
		Model:    b.model,
		Messages: messages,
		Tools:    tools,
		Stream:   false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+completionsPath, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("ollama returned no choices")
	}

	choice := parsed.Choices[0].Message
	return &llm.Completion{
		Content:   choice.Content,
		ToolCalls: choice.ToolCalls,
	}, nil
}
