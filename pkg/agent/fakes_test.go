package agent_test

import (
	"context"
	"errors"
	"sync"

	"github.com/boarnasia/tinyagents/pkg/eventstream"
	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/tools"
)

// fakeBackend pops queued completions in order and records every invocation.
type fakeBackend struct {
	completions []*llm.Completion
	errs        []error

	invocations [][]llm.Message
	toolsSeen   [][]llm.ToolSchema
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) CanHandle(string) bool { return true }

func (f *fakeBackend) Complete(_ context.Context, messages []llm.Message, schemas []llm.ToolSchema) (*llm.Completion, error) {
	f.invocations = append(f.invocations, messages)
	f.toolsSeen = append(f.toolsSeen, schemas)

	idx := len(f.invocations) - 1
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.completions) {
		return f.completions[idx], nil
	}
	return nil, errors.New("no completion queued")
}

// fakeCaller serves canned results keyed by tool name.
type fakeCaller struct {
	descriptors []tools.Descriptor
	results     map[string]string
	failures    map[string]error

	called   []string
	argsSeen []map[string]any
}

func (f *fakeCaller) ListTools(context.Context) ([]tools.Descriptor, error) {
	return f.descriptors, nil
}

func (f *fakeCaller) CallTool(_ context.Context, name string, args map[string]any) (*tools.Result, error) {
	f.called = append(f.called, name)
	f.argsSeen = append(f.argsSeen, args)

	if err, ok := f.failures[name]; ok {
		return nil, err
	}
	return &tools.Result{Text: f.results[name]}, nil
}

// recordingPresenter captures every display event.
type recordingPresenter struct {
	analyses       []string
	plans          []string
	executions     []string
	results        map[string]string
	toolErrors     map[string]error
	batchStarts    []int
	batchCompletes []int
	completions    []string
	responses      []string
	summaries      []string
	errors         []error
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{
		results:    make(map[string]string),
		toolErrors: make(map[string]error),
	}
}

func (r *recordingPresenter) Analysis(a string)   { r.analyses = append(r.analyses, a) }
func (r *recordingPresenter) ActionPlan(p string) { r.plans = append(r.plans, p) }
func (r *recordingPresenter) ToolExecution(name string, _ map[string]any) {
	r.executions = append(r.executions, name)
}
func (r *recordingPresenter) ToolResult(name, result string)   { r.results[name] = result }
func (r *recordingPresenter) ToolError(name string, err error) { r.toolErrors[name] = err }
func (r *recordingPresenter) MultipleToolsStart(n int)         { r.batchStarts = append(r.batchStarts, n) }
func (r *recordingPresenter) MultipleToolsComplete(n int) {
	r.batchCompletes = append(r.batchCompletes, n)
}
func (r *recordingPresenter) TaskCompleted(c string)  { r.completions = append(r.completions, c) }
func (r *recordingPresenter) Response(c string)       { r.responses = append(r.responses, c) }
func (r *recordingPresenter) HistorySummary(s string) { r.summaries = append(r.summaries, s) }
func (r *recordingPresenter) Error(err error)         { r.errors = append(r.errors, err) }

// capturingPublisher records published turn events.
type capturingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnCompletedEvent
}

func (c *capturingPublisher) PublishTurn(_ context.Context, event *eventstream.TurnCompletedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturingPublisher) Close() error { return nil }
