package llm

import "encoding/json"

// Message roles. Tool messages carry the result of a tool invocation back to
// the model and reference the assistant tool call that requested it.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a single message in a conversation, in the chat
// completions wire shape shared by OpenAI-compatible backends.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set only when Role == "tool"
	Name       string     `json:"name,omitempty"`         // tool name, set only when Role == "tool"
}

// ToolCall is a single tool invocation requested by the model. Arguments
// arrive as raw JSON text and are not validated until execution time.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and the raw JSON arguments string.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewTextMessage creates a simple text message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// NewToolMessage creates a tool-role result message referencing the
// originating tool call.
func NewToolMessage(toolCallID, toolName, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
		Name:       toolName,
	}
}

// wireMessage is the marshaling shape for Message. Content is a pointer so
// that tool messages can drop the field entirely while every other role
// always serializes it, empty string included.
type wireMessage struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// MarshalJSON implements the serialization rule for messages: system, user,
// and assistant messages always carry a content field (empty string when
// absent); tool messages omit content entirely when empty.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{
		Role:       m.Role,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}
	if m.Role != RoleTool || m.Content != "" {
		content := m.Content
		w.Content = &content
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire shape, treating a missing or null content
// field as the empty string.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Role = w.Role
	m.ToolCalls = w.ToolCalls
	m.ToolCallID = w.ToolCallID
	m.Name = w.Name
	if w.Content != nil {
		m.Content = *w.Content
	} else {
		m.Content = ""
	}
	return nil
}
