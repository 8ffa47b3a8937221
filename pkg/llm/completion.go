package llm

// Completion is the provider-agnostic result of one model invocation.
// Content may be empty when the model only requests tool calls, and
// ToolCalls may be empty when the model answers with text alone.
type Completion struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the model requested at least one tool
// invocation in this completion.
func (c *Completion) HasToolCalls() bool {
	return c != nil && len(c.ToolCalls) > 0
}
