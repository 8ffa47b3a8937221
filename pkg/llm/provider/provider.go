// Package provider selects and drives the language-model backend.
//
// A Backend is an opaque completion capability: it takes the assembled
// message list and tool schemas and returns content, tool-call requests, or
// both. Failures surface as a single error with no partial results.
package provider

import (
	"context"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

// Backend is the model backend boundary.
type Backend interface {
	// Name returns the canonical backend name (e.g. "openai", "ollama").
	Name() string

	// CanHandle reports whether this backend serves the given model name.
	CanHandle(model string) bool

	// Complete invokes the model with the full message list and optional
	// tool schemas.
	Complete(ctx context.Context, messages []llm.Message, tools []llm.ToolSchema) (*llm.Completion, error)
}
