// Package tools aggregates the tools exposed by connected MCP servers into a
// single registry the orchestrator can resolve tool calls against.
//
// A provider is anything satisfying the two-operation [Caller] capability
// interface; the transport behind it (stdio subprocess, socket, in-process
// fake) is irrelevant to the registry.
package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

// ErrToolNotFound is returned by Resolve for names no provider registered.
var ErrToolNotFound = errors.New("tool not found")

// Descriptor describes one callable tool. InputSchema is the tool's JSON
// parameter schema, passed verbatim to the model backend.
type Descriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Result is the flattened textual outcome of a successful tool invocation.
// Text is the first textual content item the provider returned; it may be
// empty when the provider returned no content.
type Result struct {
	Text string
}

// Caller is the capability interface a connected provider exposes.
type Caller interface {
	ListTools(ctx context.Context) ([]Descriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*Result, error)
}

type entry struct {
	desc   Descriptor
	caller Caller
}

// Registry maps tool names to the provider serving them. It is built once
// after all providers connect and read-only afterwards; registration is not
// safe for concurrent use.
type Registry struct {
	logger  *slog.Logger
	names   []string
	entries map[string]entry
}

// NewRegistry creates an empty registry. A nil logger discards log output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		logger:  logger,
		entries: make(map[string]entry),
	}
}

// Register records every descriptor as served by the given provider. A name
// that collides with an existing registration is shadowed: the new provider
// wins, the old entry is unreachable from then on, and the schema listing
// still emits the name exactly once. Shadowing is silent toward the session;
// it is only surfaced in the debug log.
func (r *Registry) Register(caller Caller, descriptors []Descriptor) {
	for _, desc := range descriptors {
		if _, exists := r.entries[desc.Name]; exists {
			r.logger.Debug("tool shadowed by later registration", "tool", desc.Name)
		} else {
			r.names = append(r.names, desc.Name)
		}
		r.entries[desc.Name] = entry{desc: desc, caller: caller}
	}
}

// Resolve returns the provider currently serving the named tool.
func (r *Registry) Resolve(name string) (Caller, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, ErrToolNotFound
	}
	return e.caller, nil
}

// Schemas emits a model-consumable schema for every registered tool, each
// name exactly once, in first-registration order.
func (r *Registry) Schemas() []llm.ToolSchema {
	schemas := make([]llm.ToolSchema, 0, len(r.names))
	for _, name := range r.names {
		e := r.entries[name]
		schemas = append(schemas, llm.NewToolSchema(e.desc.Name, e.desc.Description, e.desc.InputSchema))
	}
	return schemas
}

// Len returns the number of distinct registered tool names.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the registered tool names in first-registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
