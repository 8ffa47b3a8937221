package cliui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/boarnasia/tinyagents/pkg/utils"
)

const (
	panelWidth = 78

	// toolResultLimit caps how much of a tool result is echoed to the terminal.
	toolResultLimit = 500
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Display renders chat session panels to a terminal writer. It is the CLI
// implementation of the agent's presenter surface.
type Display struct {
	w io.Writer
}

func NewDisplay(w io.Writer) *Display {
	return &Display{w: w}
}

// panel renders a bordered box with a styled title line followed by body text.
func (d *Display) panel(title, body string, color lipgloss.Color, border lipgloss.Border) {
	style := lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1).
		Width(panelWidth)

	content := titleStyle.Foreground(color).Render(title) + "\n" + body
	fmt.Fprintln(d.w, style.Render(content))
}

// Welcome prints the startup banner with the model, token budget, and the
// session commands.
func (d *Display) Welcome(model string, maxTokens uint) {
	body := fmt.Sprintf("%s %s\n%s %s\n\n%s\n  • Type your queries to interact with the agent\n  • %s - Clear chat history\n  • %s - Show chat summary\n  • %s - Exit the agent",
		dimStyle.Render("Model:"), cyanStyle.Render(model),
		dimStyle.Render("Max tokens:"), cyanStyle.Render(fmt.Sprintf("%d", maxTokens)),
		dimStyle.Render("Commands:"),
		cyanStyle.Render("clear"),
		cyanStyle.Render("history"),
		cyanStyle.Render("quit"),
	)
	d.panel("Welcome to Tiny Agents", body, lipgloss.Color("39"), lipgloss.DoubleBorder())
}

// APIKeyWarning checks whether the key the model needs is present in the
// environment and prints a warning panel when it is not.
func (d *Display) APIKeyWarning(model string) {
	lower := strings.ToLower(model)

	var warning string
	switch {
	case strings.HasPrefix(lower, "gpt-") || strings.HasPrefix(lower, "chatgpt-") || strings.HasPrefix(lower, "o1") || strings.HasPrefix(lower, "o3") || strings.HasPrefix(lower, "o4"):
		if os.Getenv("OPENAI_API_KEY") == "" {
			warning = "OPENAI_API_KEY environment variable is not set. OpenAI models may not work."
		}
	}

	if warning == "" {
		return
	}

	d.panel("⚠ Warning", yellowStyle.Render(warning), lipgloss.Color("220"), lipgloss.RoundedBorder())
}

// ServerConnection prints a panel for one connected MCP server and its tools.
func (d *Display) ServerConnection(serverName string, tools []string) {
	styled := make([]string, len(tools))
	for i, t := range tools {
		styled[i] = cyanStyle.Render(t)
	}

	body := fmt.Sprintf("%s Connected to %s\n%s %s",
		greenStyle.Render("✓"),
		blueStyle.Render(serverName),
		dimStyle.Render("Available tools:"),
		strings.Join(styled, ", "),
	)
	d.panel("MCP Server", body, lipgloss.Color("82"), lipgloss.RoundedBorder())
}

// ServerConnectionFailed prints a panel for a server that could not be reached.
func (d *Display) ServerConnectionFailed(serverName string, err error) {
	body := redStyle.Render(fmt.Sprintf("✗ Failed to connect to %s: %v", serverName, err))
	d.panel("MCP Server", body, lipgloss.Color("196"), lipgloss.RoundedBorder())
}

// ServerSummary prints the connected server and tool counts.
func (d *Display) ServerSummary(serverCount, toolCount int) {
	body := fmt.Sprintf("Connected Servers  %s\nAvailable Tools    %s",
		greenStyle.Render(fmt.Sprintf("%d", serverCount)),
		greenStyle.Render(fmt.Sprintf("%d", toolCount)),
	)
	d.panel("Connection Summary", body, lipgloss.Color("245"), lipgloss.RoundedBorder())
	fmt.Fprintln(d.w)
}

// Analysis prints the model's analysis phase output.
func (d *Display) Analysis(analysis string) {
	d.panel("🔍 Analysis", analysis, lipgloss.Color("51"), lipgloss.RoundedBorder())
}

// ActionPlan prints the model's execution plan.
func (d *Display) ActionPlan(plan string) {
	d.panel("Execution Plan", plan, lipgloss.Color("39"), lipgloss.RoundedBorder())
}

// ToolExecution prints the tool about to run and its arguments.
func (d *Display) ToolExecution(toolName string, args map[string]any) {
	rendered, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		rendered = []byte(fmt.Sprintf("%v", args))
	}

	body := fmt.Sprintf("%s %s\n%s\n%s",
		yellowStyle.Render("Tool:"), cyanStyle.Render(toolName),
		yellowStyle.Render("Arguments:"),
		utils.Truncate(string(rendered), toolResultLimit),
	)
	d.panel("🔨 Executing Tool", body, lipgloss.Color("220"), lipgloss.RoundedBorder())
}

// ToolResult prints a tool's output, truncated when long.
func (d *Display) ToolResult(toolName, result string) {
	display := result
	if len(result) > toolResultLimit {
		display = result[:toolResultLimit] +
			dimStyle.Render(fmt.Sprintf("\n... (truncated, showing %d/%d chars)", toolResultLimit, len(result)))
	}

	icon := "✓"
	color := lipgloss.Color("82")
	if strings.Contains(strings.ToLower(result), "error") {
		icon = "⚠"
		color = lipgloss.Color("220")
	}

	d.panel(fmt.Sprintf("%s Result: %s", icon, toolName), display, color, lipgloss.RoundedBorder())
}

// ToolError prints a failed tool call.
func (d *Display) ToolError(toolName string, err error) {
	body := redStyle.Render(fmt.Sprintf("Error calling tool %s: %v", toolName, err))
	d.panel("❌ Tool Error", body, lipgloss.Color("196"), lipgloss.RoundedBorder())
}

// MultipleToolsStart announces a batch of tool calls.
func (d *Display) MultipleToolsStart(count int) {
	body := cyanStyle.Render(fmt.Sprintf("Executing %d tools to complete your request", count))
	d.panel("🔧 Multiple Actions", body, lipgloss.Color("51"), lipgloss.DoubleBorder())
}

// MultipleToolsComplete announces that a batch of tool calls finished.
func (d *Display) MultipleToolsComplete(count int) {
	fmt.Fprintln(d.w)
	body := greenStyle.Render(fmt.Sprintf("✅ Successfully executed all %d tools!", count))
	d.panel("Execution Complete", body, lipgloss.Color("82"), lipgloss.DoubleBorder())
}

// TaskCompleted prints the final summary for a completed multi-tool task.
func (d *Display) TaskCompleted(content string) {
	fmt.Fprintln(d.w)
	d.panel("✨ Task Completed", d.markdown(content), lipgloss.Color("82"), lipgloss.DoubleBorder())
}

// Response prints a plain assistant reply.
func (d *Display) Response(content string) {
	fmt.Fprintln(d.w)
	d.panel("Assistant Response", d.markdown(content), lipgloss.Color("82"), lipgloss.RoundedBorder())
}

// HistorySummary prints the chat history summary line.
func (d *Display) HistorySummary(summary string) {
	fmt.Fprintln(d.w, dimStyle.Render(summary))
}

// Error prints a session-level error.
func (d *Display) Error(err error) {
	body := redStyle.Render(fmt.Sprintf("Error: %v", err))
	d.panel("Error", body, lipgloss.Color("196"), lipgloss.RoundedBorder())
}

// markdown renders content with glamour, falling back to the raw text when
// rendering fails.
func (d *Display) markdown(content string) string {
	rendered, err := RenderMarkdown(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
