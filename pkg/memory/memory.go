// Package memory owns the conversation log for one agent session.
//
// The log is an append-only ordered sequence of messages, mutated only by
// appends from user input, model responses, and tool results, and cleared
// wholesale by an explicit user command. It is memory-resident only and is
// destroyed when the session ends.
//
// The log itself is never trimmed. BuildContext computes a budget-fitting
// context window over a read-only view of the log; the full sequence is
// retained indefinitely as the durable record of the session.
package memory

import (
	"fmt"

	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/token"
)

// trimNoticeFormat is the synthetic system message prepended to a trimmed
// context window.
const trimNoticeFormat = "[Note: %d earlier messages trimmed]"

// Log is the append-only conversation record for one session.
type Log struct {
	estimator *token.Estimator
	maxTokens int
	buffer    int
	messages  []llm.Message
}

// NewLog creates an empty conversation log. maxTokens is the hard context
// budget for one model invocation; buffer is the safety reservation kept
// free for the model's response.
func NewLog(estimator *token.Estimator, maxTokens, buffer int) *Log {
	return &Log{
		estimator: estimator,
		maxTokens: maxTokens,
		buffer:    buffer,
	}
}

// Append adds a message to the end of the log. It always succeeds; no role
// legality is enforced beyond structural shape.
func (l *Log) Append(msg llm.Message) {
	l.messages = append(l.messages, msg)
}

// Clear empties the log. Irreversible.
func (l *Log) Clear() {
	l.messages = nil
}

// Len returns the number of stored messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Messages returns a copy of the full log, newest last.
func (l *Log) Messages() []llm.Message {
	out := make([]llm.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Summary describes the current log without mutating it.
type Summary struct {
	MessageCount int
	ApproxTokens int
}

func (s Summary) String() string {
	return fmt.Sprintf("Chat history: %d messages, ~%d tokens", s.MessageCount, s.ApproxTokens)
}

// Summarize reports the message count and approximate token cost of the
// full log.
func (l *Log) Summarize() Summary {
	return Summary{
		MessageCount: len(l.messages),
		ApproxTokens: l.estimator.Estimate(l.messages),
	}
}

// BuildContext returns the subset of stored history that fits the token
// budget alongside the system message, the current user message, and the
// serialized tool schemas. The returned slice excludes system and current;
// the caller prepends and appends those itself.
//
// History is scanned newest to oldest and included greedily until the first
// message that does not fit; older messages past that point are never
// considered. The selected subset is returned in chronological order. When
// messages were excluded, a synthetic trim notice is prepended if the notice
// itself still fits, and omitted silently otherwise.
//
// A budget with no room for history yields an empty context, not an error.
func (l *Log) BuildContext(system, current llm.Message, toolSchemaTokens int) []llm.Message {
	reserved := l.estimator.Estimate([]llm.Message{system}) +
		l.estimator.Estimate([]llm.Message{current}) +
		toolSchemaTokens +
		l.buffer

	available := l.maxTokens - reserved
	if available <= 0 {
		return nil
	}

	used := 0
	cut := len(l.messages)
	for i := len(l.messages) - 1; i >= 0; i-- {
		cost := l.estimator.Estimate([]llm.Message{l.messages[i]})
		if used+cost > available {
			break
		}
		used += cost
		cut = i
	}

	selected := make([]llm.Message, 0, len(l.messages)-cut+1)

	if trimmed := cut; trimmed > 0 {
		notice := llm.NewTextMessage(llm.RoleSystem, fmt.Sprintf(trimNoticeFormat, trimmed))
		if used+l.estimator.Estimate([]llm.Message{notice}) <= available {
			selected = append(selected, notice)
		}
	}

	selected = append(selected, l.messages[cut:]...)
	return selected
}
