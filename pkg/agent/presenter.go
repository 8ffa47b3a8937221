package agent

// Presenter receives the display events a query produces as it moves through
// the model and tool phases. The CLI renders them as panels; tests record
// them.
type Presenter interface {
	Analysis(analysis string)
	ActionPlan(plan string)
	ToolExecution(toolName string, args map[string]any)
	ToolResult(toolName, result string)
	ToolError(toolName string, err error)
	MultipleToolsStart(count int)
	MultipleToolsComplete(count int)
	TaskCompleted(content string)
	Response(content string)
	HistorySummary(summary string)
	Error(err error)
}

// NopPresenter discards all display events.
type NopPresenter struct{}

func (NopPresenter) Analysis(string)                      {}
func (NopPresenter) ActionPlan(string)                    {}
func (NopPresenter) ToolExecution(string, map[string]any) {}
func (NopPresenter) ToolResult(string, string)            {}
func (NopPresenter) ToolError(string, error)              {}
func (NopPresenter) MultipleToolsStart(int)               {}
func (NopPresenter) MultipleToolsComplete(int)            {}
func (NopPresenter) TaskCompleted(string)                 {}
func (NopPresenter) Response(string)                      {}
func (NopPresenter) HistorySummary(string)                {}
func (NopPresenter) Error(error)                          {}
