// Package chatcmder provides the chat command: an interactive agent session
// over one or more MCP server scripts.
package chatcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/boarnasia/tinyagents/pkg/agent"
	"github.com/boarnasia/tinyagents/pkg/cliui"
	"github.com/boarnasia/tinyagents/pkg/config"
	"github.com/boarnasia/tinyagents/pkg/dotdir"
	"github.com/boarnasia/tinyagents/pkg/llm/provider"
	"github.com/boarnasia/tinyagents/pkg/logger"
	"github.com/boarnasia/tinyagents/pkg/memory"
	"github.com/boarnasia/tinyagents/pkg/token"
	"github.com/boarnasia/tinyagents/pkg/tools"
)

type chatCommander struct {
	configDir      string
	model          string
	maxTokens      uint
	responseBuffer uint
	systemPrompt   string
	openaiTarget   string
	ollamaTarget   string
	logFile        string
	debug          bool
}

// chatFlags defines every flag the chat command exposes and the config key
// each one overrides.
var chatFlags = config.FlagSet{
	config.FlagModel:          {Name: "model", Shorthand: "m", ViperKey: "model.name", Description: "Model to chat with (e.g. gpt-4.1, llama3.2)"},
	config.FlagMaxTokens:      {Name: "max-tokens", ViperKey: "model.max_context_tokens", Description: "Maximum context tokens per model call"},
	config.FlagResponseBuffer: {Name: "response-buffer", ViperKey: "model.response_buffer", Description: "Token reservation kept free for the model's response"},
	config.FlagOpenAITarget:   {Name: "openai-target", ViperKey: "backend.openai_target", Description: "OpenAI-compatible API base URL"},
	config.FlagOllamaTarget:   {Name: "ollama-target", ViperKey: "backend.ollama_target", Description: "Ollama server base URL"},
	config.FlagLogFile:        {Name: "log-file", ViperKey: "logging.file", Description: "Session log file (relative paths resolve inside the config dir)"},
}

var chatFlagKeys = []string{
	config.FlagModel,
	config.FlagMaxTokens,
	config.FlagResponseBuffer,
	config.FlagOpenAITarget,
	config.FlagOllamaTarget,
	config.FlagLogFile,
}

const chatLongDesc string = `Start an interactive agent session.

Each argument is the path to an MCP server script (.py or .js). The servers
are launched as subprocesses, their tools are aggregated, and the model can
call them while answering your queries.

Session commands:
  clear     Clear chat history
  history   Show chat summary
  quit      Exit the agent

Examples:
  tinyagents chat servers/filesystem.py
  tinyagents chat servers/*.py --model llama3.2
  tinyagents chat servers/tasks.js --model gpt-4.1 --max-tokens 32000`

const chatShortDesc string = "Interactive agent session over MCP servers"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat <server-script>...",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, chatFlags, chatFlagKeys)

			cmder.model = v.GetString("model.name")
			cmder.maxTokens = v.GetUint("model.max_context_tokens")
			cmder.responseBuffer = v.GetUint("model.response_buffer")
			cmder.systemPrompt = v.GetString("model.system_prompt")
			cmder.openaiTarget = v.GetString("backend.openai_target")
			cmder.ollamaTarget = v.GetString("backend.ollama_target")
			cmder.logFile = v.GetString("logging.file")

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, chatFlags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, chatFlags, config.FlagMaxTokens, &cmder.maxTokens)
	config.AddUintFlag(cmd, chatFlags, config.FlagResponseBuffer, &cmder.responseBuffer)
	config.AddStringFlag(cmd, chatFlags, config.FlagOpenAITarget, &cmder.openaiTarget)
	config.AddStringFlag(cmd, chatFlags, config.FlagOllamaTarget, &cmder.ollamaTarget)
	config.AddStringFlag(cmd, chatFlags, config.FlagLogFile, &cmder.logFile)

	return cmd
}

func (c *chatCommander) run(ctx context.Context, serverPaths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Ctrl-C bounces the session back to its prompt rather than killing
	// the process; only a confirmed quit ends it.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	log, closeLog, err := c.buildLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	display := cliui.NewDisplay(os.Stdout)

	// Connect servers and aggregate their tools.
	registry := tools.NewRegistry(log)
	connector := tools.NewConnector(registry, log)
	defer func() { _ = connector.Close() }()

	var connections []tools.Connection
	err = cliui.Step(os.Stdout, "Connecting to MCP servers", func() error {
		connections = connector.ConnectAll(ctx, serverPaths)
		return nil
	})
	if err != nil {
		return err
	}

	serverCount := 0
	for _, conn := range connections {
		if conn.Err != nil {
			display.ServerConnectionFailed(conn.Name(), conn.Err)
			continue
		}
		serverCount++
		display.ServerConnection(conn.Name(), conn.Tools)
	}
	display.ServerSummary(serverCount, registry.Len())

	display.Welcome(c.model, c.maxTokens)
	display.APIKeyWarning(c.model)

	backend := provider.ForModel(c.model, provider.Targets{
		OpenAI: c.openaiTarget,
		Ollama: c.ollamaTarget,
	})
	log.Debug("backend selected", "backend", backend.Name(), "model", c.model)

	estimator := token.NewEstimator(c.model)
	a := agent.New(agent.Params{
		Backend:      backend,
		Registry:     registry,
		Memory:       memory.NewLog(estimator, int(c.maxTokens), int(c.responseBuffer)),
		Estimator:    estimator,
		Presenter:    display,
		Logger:       log,
		Model:        c.model,
		SystemPrompt: c.systemPrompt,
	})

	session := agent.NewSession(agent.SessionParams{
		Agent:       a,
		Presenter:   display,
		Input:       os.Stdin,
		Output:      os.Stdout,
		Interrupts:  interrupts,
		ServerCount: serverCount,
		Logger:      log,
	})

	return session.Run(ctx)
}

// buildLogger fans log records out to a pretty terminal handler on stderr and
// a JSON handler appending to the session log file in the config directory.
func (c *chatCommander) buildLogger() (*slog.Logger, func(), error) {
	dir, err := dotdir.NewManager().Ensure(c.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving config dir: %w", err)
	}

	logPath := c.logFile
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(dir, logPath)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	// Colorized output only when stderr is actually a terminal.
	pretty := term.IsTerminal(int(os.Stderr.Fd()))
	terminal := logger.New(
		logger.WithPretty(pretty),
		logger.WithWriter(os.Stderr),
		logger.WithDebug(c.debug),
	)
	file := logger.New(
		logger.WithJSON(true),
		logger.WithWriter(f),
		logger.WithDebug(c.debug),
	)

	return logger.Multi(terminal, file), func() { _ = f.Close() }, nil
}
