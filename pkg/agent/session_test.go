package agent_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/boarnasia/tinyagents/pkg/agent"
	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/memory"
	"github.com/boarnasia/tinyagents/pkg/token"
	"github.com/boarnasia/tinyagents/pkg/tools"
)

// failingReader simulates a broken input stream.
type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

var _ = Describe("Session", func() {
	var (
		backend    *fakeBackend
		registry   *tools.Registry
		log        *memory.Log
		presenter  *recordingPresenter
		out        *bytes.Buffer
		interrupts chan os.Signal
	)

	newSessionFrom := func(input io.Reader, serverCount int) *agent.Session {
		a := agent.New(agent.Params{
			Backend:      backend,
			Registry:     registry,
			Memory:       log,
			Estimator:    token.NewEstimatorWithEncoder(token.HeuristicEncoder{}),
			Presenter:    presenter,
			Model:        "test-model",
			SystemPrompt: "You are helpful.",
		})

		return agent.NewSession(agent.SessionParams{
			Agent:       a,
			Presenter:   presenter,
			Input:       input,
			Output:      out,
			Interrupts:  interrupts,
			ServerCount: serverCount,
		})
	}

	newSession := func(input string, serverCount int) *agent.Session {
		return newSessionFrom(strings.NewReader(input), serverCount)
	}

	BeforeEach(func() {
		backend = &fakeBackend{}
		registry = tools.NewRegistry(nil)
		log = memory.NewLog(token.NewEstimatorWithEncoder(token.HeuristicEncoder{}), 16000, 500)
		presenter = newRecordingPresenter()
		out = &bytes.Buffer{}
		interrupts = nil
	})

	It("quits when the user confirms", func() {
		s := newSession("quit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Are you sure you want to quit?"))
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("keeps the session alive when quit is declined", func() {
		backend.completions = []*llm.Completion{{Content: "hi"}}

		s := newSession("quit\nn\nhello\nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(presenter.responses).To(ConsistOf("hi"))
	})

	It("treats exhausted input during confirmation as a quit", func() {
		s := newSession("quit\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("matches commands case-insensitively", func() {
		s := newSession("QUIT\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("clears history on the clear command", func() {
		log.Append(llm.NewTextMessage(llm.RoleUser, "old"))

		s := newSession("clear\nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(log.Len()).To(BeZero())
		Expect(out.String()).To(ContainSubstring("Chat history cleared."))
	})

	It("shows the history summary on the history command", func() {
		log.Append(llm.NewTextMessage(llm.RoleUser, "earlier question"))

		s := newSession("history\nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(presenter.summaries).To(HaveLen(1))
		Expect(presenter.summaries[0]).To(ContainSubstring("Chat history: 1 messages"))
	})

	It("re-prompts on empty input without invoking the model", func() {
		s := newSession("\n   \nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(backend.invocations).To(BeEmpty())
		Expect(out.String()).To(ContainSubstring("Please enter a query or command."))
	})

	It("rejects queries when no servers are connected", func() {
		s := newSession("hello\nquit\ny\n", 0)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(backend.invocations).To(BeEmpty())
		Expect(out.String()).To(ContainSubstring("Not connected to any MCP server."))
	})

	It("still handles commands when no servers are connected", func() {
		s := newSession("history\nquit\ny\n", 0)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(presenter.summaries).To(HaveLen(1))
	})

	It("runs a query and reports the response and summary", func() {
		backend.completions = []*llm.Completion{{Content: "the answer"}}

		s := newSession("what is it?\nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(presenter.responses).To(ConsistOf("the answer"))
		Expect(presenter.summaries).To(HaveLen(1))
		Expect(presenter.summaries[0]).To(ContainSubstring("2 messages"))
	})

	It("returns when input is exhausted", func() {
		s := newSession("", 1)
		Expect(s.Run(context.Background())).To(Succeed())
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := newSession("hello\n", 1)
		Expect(s.Run(ctx)).To(MatchError(context.Canceled))
	})

	It("prints a hint on interrupt and keeps the session alive", func() {
		backend.completions = []*llm.Completion{{Content: "still here"}}

		interrupts = make(chan os.Signal, 1)
		interrupts <- os.Interrupt

		s := newSession("hello\nquit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(out.String()).To(ContainSubstring("Use 'quit' to exit."))
		Expect(presenter.responses).To(ConsistOf("still here"))
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("survives repeated interrupts before any input", func() {
		interrupts = make(chan os.Signal, 2)
		interrupts <- os.Interrupt
		interrupts <- os.Interrupt

		s := newSession("quit\ny\n", 1)
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(strings.Count(out.String(), "Use 'quit' to exit.")).To(Equal(2))
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("does not treat an interrupt during quit confirmation as a yes", func() {
		backend.completions = []*llm.Completion{{Content: "back again"}}

		interrupts = make(chan os.Signal, 1)

		s := newSession("quit\nn\nhello\nquit\ny\n", 1)
		interrupts <- os.Interrupt
		Expect(s.Run(context.Background())).To(Succeed())

		Expect(presenter.responses).To(ConsistOf("back again"))
	})

	It("routes input read failures through the presenter", func() {
		readErr := errors.New("input stream closed")

		s := newSessionFrom(failingReader{err: readErr}, 1)
		Expect(s.Run(context.Background())).To(MatchError(readErr))

		Expect(presenter.errors).To(ConsistOf(readErr))
	})
})
