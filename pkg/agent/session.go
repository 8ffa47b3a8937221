package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SessionParams configures an interactive chat session.
type SessionParams struct {
	Agent     *Agent
	Presenter Presenter
	Input     io.Reader
	Output    io.Writer
	// Interrupts delivers SIGINT while the session waits for input. An
	// interrupt prints a hint and returns to the prompt; it never ends
	// the session.
	Interrupts <-chan os.Signal
	// ServerCount is the number of connected MCP servers; queries are
	// rejected when it is zero.
	ServerCount int
	Logger      *slog.Logger
}

// Session is the interactive read-eval loop over one Agent. The commands
// quit, clear, and history are handled locally; everything else is a query.
type Session struct {
	agent       *Agent
	presenter   Presenter
	in          *bufio.Scanner
	out         io.Writer
	interrupts  <-chan os.Signal
	serverCount int
	logger      *slog.Logger
}

func NewSession(p SessionParams) *Session {
	if p.Presenter == nil {
		p.Presenter = NopPresenter{}
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		agent:       p.Agent,
		presenter:   p.Presenter,
		in:          bufio.NewScanner(p.Input),
		out:         p.Output,
		interrupts:  p.Interrupts,
		serverCount: p.ServerCount,
		logger:      p.Logger,
	}
}

// Run loops on user input until quit is confirmed, input is exhausted, or the
// context is canceled. Interrupts only ever bounce the session back to the
// prompt; quitting stays an explicit, confirmed command.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		for s.in.Scan() {
			lines <- s.in.Text()
		}
		scanErr <- s.in.Err()
		close(lines)
	}()

	for {
		query, ok, err := s.readLine(ctx, lines, scanErr, "\nQuery> ")
		if !ok {
			if err != nil && ctx.Err() == nil {
				s.presenter.Error(err)
			}
			return err
		}
		query = strings.TrimSpace(query)

		if query == "" {
			fmt.Fprintln(s.out, "Please enter a query or command. Type 'quit' to exit.")
			continue
		}

		switch strings.ToLower(query) {
		case "quit":
			if s.confirmQuit(ctx, lines, scanErr) {
				fmt.Fprintln(s.out, "Goodbye! 👋")
				return nil
			}
			continue

		case "clear":
			s.agent.Memory().Clear()
			fmt.Fprintln(s.out, "✓ Chat history cleared.")
			continue

		case "history":
			s.presenter.HistorySummary(s.agent.Memory().Summarize().String())
			continue
		}

		if s.serverCount == 0 {
			fmt.Fprintln(s.out, "Not connected to any MCP server. Please connect first.")
			continue
		}

		fmt.Fprintln(s.out)
		response := s.agent.ExecuteQuery(ctx, query)
		if response != "" {
			s.presenter.Response(response)
		}
		s.presenter.HistorySummary(s.agent.Memory().Summarize().String())
	}
}

// readLine prompts and waits for the next input line. An interrupt while
// waiting prints a hint and re-prompts; only context cancellation or
// exhausted input ends the wait. Pending interrupts are drained before
// blocking so a signal delivered mid-turn still surfaces as the hint.
func (s *Session) readLine(ctx context.Context, lines <-chan string, scanErr <-chan error, prompt string) (string, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		select {
		case <-s.interrupts:
			fmt.Fprintln(s.out, "\nUse 'quit' to exit.")
			continue
		default:
		}

		fmt.Fprint(s.out, prompt)

		select {
		case line, ok := <-lines:
			if !ok {
				return "", false, <-scanErr
			}
			return line, true, nil
		case <-s.interrupts:
			fmt.Fprintln(s.out, "\nUse 'quit' to exit.")
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
}

// confirmQuit prompts for confirmation. Exhausted input counts as a yes so a
// piped session cannot hang.
func (s *Session) confirmQuit(ctx context.Context, lines <-chan string, scanErr <-chan error) bool {
	answer, ok, _ := s.readLine(ctx, lines, scanErr, "Are you sure you want to quit? [y/N] ")
	if !ok {
		return true
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
