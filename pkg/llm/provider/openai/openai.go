// Package openai implements the provider Backend against OpenAI's Chat
// Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com"

	completionsPath = "/v1/chat/completions"
)

// modelPrefixes are the model name families served by this backend.
var modelPrefixes = []string{"gpt-", "chatgpt-", "o1", "o3", "o4"}

// Backend calls the OpenAI chat completions endpoint.
type Backend struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds construction options for the OpenAI backend.
type Config struct {
	// BaseURL overrides the API endpoint (e.g. for compatible gateways).
	// Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the model name sent with every request.
	Model string

	// APIKey is the bearer token. Defaults to the OPENAI_API_KEY
	// environment variable.
	APIKey string
}

// New creates an OpenAI backend.
func New(cfg Config) *Backend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &Backend{
		baseURL: baseURL,
		model:   cfg.Model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Completions with large contexts can be slow.
			Timeout: 5 * time.Minute,
		},
	}
}

func (b *Backend) Name() string {
	return "openai"
}

// CanHandle reports whether the model name belongs to an OpenAI family.
func (b *Backend) CanHandle(model string) bool {
	lowered := strings.ToLower(model)
	for _, prefix := range modelPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []llm.Message    `json:"messages"`
	Tools    []llm.ToolSchema `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []llm.ToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat completion request.
func (b *Backend) Complete(ctx context.Context, messages []llm.Message, tools []llm.ToolSchema) (*llm.Completion, error) {
	reqBody := chatRequest{
		Model:    b.model,
		Messages: messages,
		Tools:    tools,
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
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choice := parsed.Choices[0].Message
	return &llm.Completion{
		Content:   choice.Content,
		ToolCalls: choice.ToolCalls,
	}, nil
}
