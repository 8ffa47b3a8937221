// Package eventstream defines transport-neutral session telemetry events.
//
// The orchestrator emits one TurnCompletedEvent after each user query runs
// to completion. Publishers are pluggable; the default is the no-op
// publisher under eventstream/nop.
package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCompleted is emitted after a conversation turn completes.
	EventTypeTurnCompleted = "tinyagents.turn.completed"
)

// TurnCompletedEvent describes one completed turn: a user query through to
// final assistant output, spanning every model and tool round-trip in
// between.
type TurnCompletedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Turn          TurnMeta    `json:"turn"`
}

// EventSource identifies the backend serving the turn.
type EventSource struct {
	Backend string `json:"backend"`
	Model   string `json:"model"`
}

// TurnMeta captures the shape and timing of the turn.
type TurnMeta struct {
	Rounds      int       `json:"rounds"`
	ToolCalls   int       `json:"tool_calls"`
	ToolErrors  int       `json:"tool_errors"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// NewTurnCompletedEvent stamps a fresh event with identity, schema version,
// and emission time.
func NewTurnCompletedEvent(source EventSource, turn TurnMeta) *TurnCompletedEvent {
	return &TurnCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeTurnCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Turn:          turn,
	}
}
