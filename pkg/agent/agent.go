// Package agent drives one conversational turn end to end: context assembly,
// model invocation, tool-call sequencing, and the follow-up responses that
// fold tool results back into the conversation.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/boarnasia/tinyagents/pkg/eventstream"
	"github.com/boarnasia/tinyagents/pkg/eventstream/nop"
	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/llm/provider"
	"github.com/boarnasia/tinyagents/pkg/memory"
	"github.com/boarnasia/tinyagents/pkg/token"
	"github.com/boarnasia/tinyagents/pkg/tools"
)

const noContentPlaceholder = "[No content or tool calls received]"

// Params configures a new Agent. Backend, Registry, Memory, and Estimator
// are required; the rest default to no-op implementations.
type Params struct {
	Backend      provider.Backend
	Registry     *tools.Registry
	Memory       *memory.Log
	Estimator    *token.Estimator
	Presenter    Presenter
	Publisher    eventstream.Publisher
	Logger       *slog.Logger
	Model        string
	SystemPrompt string
}

// Agent orchestrates queries against one model backend and one tool registry.
type Agent struct {
	backend      provider.Backend
	registry     *tools.Registry
	memory       *memory.Log
	estimator    *token.Estimator
	presenter    Presenter
	publisher    eventstream.Publisher
	logger       *slog.Logger
	model        string
	systemPrompt string
}

func New(p Params) *Agent {
	if p.Presenter == nil {
		p.Presenter = NopPresenter{}
	}
	if p.Publisher == nil {
		p.Publisher = nop.NewPublisher()
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.DiscardHandler)
	}

	return &Agent{
		backend:      p.Backend,
		registry:     p.Registry,
		memory:       p.Memory,
		estimator:    p.Estimator,
		presenter:    p.Presenter,
		publisher:    p.Publisher,
		logger:       p.Logger,
		model:        p.Model,
		systemPrompt: p.SystemPrompt,
	}
}

// Memory exposes the conversation log backing this agent.
func (a *Agent) Memory() *memory.Log {
	return a.memory
}

// turnStats accumulates the counters published on the turn event.
type turnStats struct {
	rounds     int
	toolCalls  int
	toolErrors int
}

// ExecuteQuery runs one full turn for the given user query and returns the
// textual response to display. Model failures are folded into the
// conversation as assistant messages rather than surfaced as errors, so the
// transcript always records what the user saw.
func (a *Agent) ExecuteQuery(ctx context.Context, query string) string {
	started := time.Now()
	var turn turnStats

	system := llm.NewTextMessage(llm.RoleSystem, a.systemPrompt)
	current := llm.NewTextMessage(llm.RoleUser, query)

	schemas := a.registry.Schemas()
	schemaTokens := 0
	if len(schemas) > 0 {
		if payload, err := json.Marshal(schemas); err == nil {
			schemaTokens = a.estimator.EstimateText(string(payload))
		}
	}

	history := a.memory.BuildContext(system, current, schemaTokens)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, system)
	messages = append(messages, history...)
	messages = append(messages, current)

	a.memory.Append(current)

	a.logger.Debug("invoking model",
		"model", a.model,
		"messages", len(messages),
		"tools", len(schemas),
	)

	completion, err := a.backend.Complete(ctx, messages, schemas)
	if err != nil {
		msg := fmt.Sprintf("Failed to get response: %v", err)
		a.memory.Append(llm.NewTextMessage(llm.RoleAssistant, msg))
		a.publishTurn(started, turn)
		return msg
	}

	var outputParts []string
	content := completion.Content
	analysisShown := false
	planShown := false

	// Analysis and plan markers are honored on the first response only.
	if analysis, rest, ok := SplitAnalysis(content); ok {
		a.presenter.Analysis(analysis)
		analysisShown = true
		content = rest
	}

	if plan, ok := FindActionPlan(content); ok {
		a.presenter.ActionPlan(plan)
		planShown = true
	} else if content != "" && !analysisShown {
		outputParts = append(outputParts, content)
	}

	switch {
	case completion.HasToolCalls():
		assistant := llm.Message{Role: llm.RoleAssistant, Content: content, ToolCalls: completion.ToolCalls}
		messages = append(messages, assistant)
		a.memory.Append(assistant)

		messages = a.runToolCalls(ctx, completion.ToolCalls, messages, &turn)
		turn.rounds++

		final, err := a.backend.Complete(ctx, messages, schemas)
		if err != nil {
			outputParts = a.recordFinalFailure(outputParts, err)
			break
		}

		// A second batch of tool calls gets one more round; anything the
		// model asks for beyond that is dropped.
		if final.HasToolCalls() {
			a.logger.Debug("processing additional tool calls", "count", len(final.ToolCalls))

			assistant = llm.Message{Role: llm.RoleAssistant, Content: final.Content, ToolCalls: final.ToolCalls}
			messages = append(messages, assistant)
			a.memory.Append(assistant)

			messages = a.runToolCalls(ctx, final.ToolCalls, messages, &turn)
			turn.rounds++

			final, err = a.backend.Complete(ctx, messages, schemas)
			if err != nil {
				outputParts = a.recordFinalFailure(outputParts, err)
				break
			}

			if final.HasToolCalls() {
				a.logger.Debug("tool round limit reached, dropping further calls",
					"count", len(final.ToolCalls),
				)
			}
		}

		if final.Content != "" {
			finalContent := final.Content

			// Skip duplicate action plans in the wrap-up.
			if planShown {
				if idx := strings.Index(finalContent, ActionPlanMarker); idx == 0 {
					finalContent = ""
				} else if idx > 0 {
					finalContent = strings.TrimSpace(finalContent[:idx])
				}
			}

			if finalContent != "" {
				if HasCompletionMarker(finalContent) {
					a.presenter.TaskCompleted(finalContent)
				} else {
					outputParts = append(outputParts, finalContent)
				}
			}

			a.memory.Append(llm.NewTextMessage(llm.RoleAssistant, final.Content))
		}

	case content != "":
		a.memory.Append(llm.NewTextMessage(llm.RoleAssistant, content))

	default:
		outputParts = append(outputParts, noContentPlaceholder)
		a.memory.Append(llm.NewTextMessage(llm.RoleAssistant, noContentPlaceholder))
	}

	a.publishTurn(started, turn)
	return joinParts(outputParts)
}

// runToolCalls executes a batch of tool calls in request order. Each call's
// outcome, success or failure, is appended to both the wire message list and
// the conversation log before the next call runs.
func (a *Agent) runToolCalls(ctx context.Context, calls []llm.ToolCall, messages []llm.Message, turn *turnStats) []llm.Message {
	if len(calls) > 1 {
		a.presenter.MultipleToolsStart(len(calls))
	}

	for _, call := range calls {
		messages = a.runToolCall(ctx, call, messages, turn)
	}

	if len(calls) > 1 {
		a.presenter.MultipleToolsComplete(len(calls))
	}

	return messages
}

func (a *Agent) runToolCall(ctx context.Context, call llm.ToolCall, messages []llm.Message, turn *turnStats) []llm.Message {
	turn.toolCalls++
	name := call.Function.Name

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			turn.toolErrors++
			a.presenter.ToolError(name, err)
			return a.appendToolResult(messages, call, fmt.Sprintf("Error: Could not parse arguments. %v", err))
		}
	}

	a.presenter.ToolExecution(name, args)

	caller, err := a.registry.Resolve(name)
	if err != nil {
		turn.toolErrors++
		a.presenter.ToolError(name, err)
		return a.appendToolResult(messages, call, fmt.Sprintf("Error: Tool execution failed. %v", err))
	}

	result, err := caller.CallTool(ctx, name, args)
	if err != nil {
		turn.toolErrors++
		a.presenter.ToolError(name, err)
		return a.appendToolResult(messages, call, fmt.Sprintf("Error: Tool execution failed. %v", err))
	}

	text := ""
	if result != nil {
		text = result.Text
	}
	if text == "" {
		text = "No content returned"
	}

	a.presenter.ToolResult(name, text)
	return a.appendToolResult(messages, call, text)
}

func (a *Agent) appendToolResult(messages []llm.Message, call llm.ToolCall, content string) []llm.Message {
	msg := llm.NewToolMessage(call.ID, call.Function.Name, content)
	a.memory.Append(msg)
	return append(messages, msg)
}

func (a *Agent) recordFinalFailure(outputParts []string, err error) []string {
	msg := fmt.Sprintf("[Failed to get final response: %v]", err)
	a.memory.Append(llm.NewTextMessage(llm.RoleAssistant, msg))
	return append(outputParts, msg)
}

func (a *Agent) publishTurn(started time.Time, turn turnStats) {
	completed := time.Now()
	event := eventstream.NewTurnCompletedEvent(
		eventstream.EventSource{Backend: a.backend.Name(), Model: a.model},
		eventstream.TurnMeta{
			Rounds:      turn.rounds,
			ToolCalls:   turn.toolCalls,
			ToolErrors:  turn.toolErrors,
			StartedAt:   started,
			CompletedAt: completed,
			DurationMs:  completed.Sub(started).Milliseconds(),
		},
	)

	if err := a.publisher.PublishTurn(context.Background(), event); err != nil {
		a.logger.Debug("publishing turn event", "error", err)
	}
}

func joinParts(parts []string) string {
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
