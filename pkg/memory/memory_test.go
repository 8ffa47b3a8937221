package memory_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/memory"
	"github.com/boarnasia/tinyagents/pkg/token"
)

// byteEncoder counts one token per byte so budgets in specs are exact.
type byteEncoder struct{}

func (byteEncoder) Count(text string) int { return len(text) }

// estimator cost of a single text message: 4 overhead + len(content) + 2 primer.
func msgCost(content string) int { return 4 + len(content) + 2 }

var _ = Describe("Log", func() {
	var est *token.Estimator

	BeforeEach(func() {
		est = token.NewEstimatorWithEncoder(byteEncoder{})
	})

	Describe("Append and Summarize", func() {
		It("reflects an appended message immediately", func() {
			log := memory.NewLog(est, 1000, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "hi"))
			Expect(log.Summarize().MessageCount).To(Equal(1))

			log.Append(llm.NewTextMessage(llm.RoleAssistant, "hello"))
			Expect(log.Summarize().MessageCount).To(Equal(2))
			Expect(log.Summarize().ApproxTokens).To(BeNumerically(">", 0))
		})

		It("renders the session status line", func() {
			log := memory.NewLog(est, 1000, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "hi"))
			Expect(log.Summarize().String()).To(MatchRegexp(`^Chat history: 1 messages, ~\d+ tokens$`))
		})
	})

	Describe("Clear", func() {
		It("empties the log wholesale", func() {
			log := memory.NewLog(est, 1000, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "a"))
			log.Append(llm.NewTextMessage(llm.RoleAssistant, "b"))
			log.Clear()
			Expect(log.Len()).To(BeZero())
			Expect(log.Summarize().MessageCount).To(BeZero())
		})
	})

	Describe("BuildContext", func() {
		var system, current llm.Message

		BeforeEach(func() {
			system = llm.NewTextMessage(llm.RoleSystem, "sys")
			current = llm.NewTextMessage(llm.RoleUser, "query")
		})

		It("returns everything when the budget is generous", func() {
			log := memory.NewLog(est, 10000, 10)
			for i := range 5 {
				log.Append(llm.NewTextMessage(llm.RoleUser, fmt.Sprintf("message %d", i)))
			}

			ctx := log.BuildContext(system, current, 0)
			Expect(ctx).To(HaveLen(5))
			for i, msg := range ctx {
				Expect(msg.Content).To(Equal(fmt.Sprintf("message %d", i)))
			}
		})

		It("returns an empty context when nothing is available", func() {
			log := memory.NewLog(est, 10, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "old"))

			Expect(log.BuildContext(system, current, 0)).To(BeEmpty())
		})

		It("treats a negative budget the same as zero", func() {
			log := memory.NewLog(est, 1, 100)
			log.Append(llm.NewTextMessage(llm.RoleUser, "old"))

			Expect(log.BuildContext(system, current, 500)).To(BeEmpty())
		})

		It("never exceeds the overall budget", func() {
			maxTokens := 80
			buffer := 5
			log := memory.NewLog(est, maxTokens, buffer)
			for i := range 20 {
				log.Append(llm.NewTextMessage(llm.RoleUser, strings.Repeat("x", 3+i%7)))
			}

			ctx := log.BuildContext(system, current, 7)
			total := est.Estimate([]llm.Message{system}) +
				est.Estimate([]llm.Message{current}) +
				7 + buffer
			for _, msg := range ctx {
				total += est.Estimate([]llm.Message{msg})
			}
			Expect(total).To(BeNumerically("<=", maxTokens))
		})

		It("keeps the most recent messages and preserves chronological order", func() {
			// Budget: room for the two newest messages only.
			reserved := msgCost("sys") + msgCost("query")
			budget := reserved + msgCost("newer") + msgCost("newest")
			log := memory.NewLog(est, budget, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "oldest"))
			log.Append(llm.NewTextMessage(llm.RoleAssistant, "newer"))
			log.Append(llm.NewTextMessage(llm.RoleUser, "newest"))

			ctx := log.BuildContext(system, current, 0)
			// The trim notice does not fit, so only the two survivors appear.
			Expect(ctx).To(HaveLen(2))
			Expect(ctx[0].Content).To(Equal("newer"))
			Expect(ctx[1].Content).To(Equal("newest"))
		})

		It("stops at the first message that does not fit, even if older ones are smaller", func() {
			reserved := msgCost("sys") + msgCost("query")
			big := strings.Repeat("b", 50)
			budget := reserved + msgCost("tail") + msgCost(big) - 1
			log := memory.NewLog(est, budget, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, "t")) // tiny, but past the cutoff
			log.Append(llm.NewTextMessage(llm.RoleUser, big))
			log.Append(llm.NewTextMessage(llm.RoleUser, "tail"))

			ctx := log.BuildContext(system, current, 0)
			contents := make([]string, 0, len(ctx))
			for _, m := range ctx {
				contents = append(contents, m.Content)
			}
			Expect(contents).NotTo(ContainElement("t"))
			Expect(contents).To(ContainElement("tail"))
		})

		It("prepends a trim notice with the trimmed count when it fits", func() {
			notice := "[Note: 2 earlier messages trimmed]"
			reserved := msgCost("sys") + msgCost("query")
			budget := reserved + msgCost("keep me") + msgCost(notice)
			log := memory.NewLog(est, budget, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, strings.Repeat("a", 100)))
			log.Append(llm.NewTextMessage(llm.RoleUser, strings.Repeat("b", 100)))
			log.Append(llm.NewTextMessage(llm.RoleUser, "keep me"))

			ctx := log.BuildContext(system, current, 0)
			Expect(ctx).To(HaveLen(2))
			Expect(ctx[0].Role).To(Equal(llm.RoleSystem))
			Expect(ctx[0].Content).To(Equal(notice))
			Expect(ctx[1].Content).To(Equal("keep me"))
			// Trimmed count matches the durable log.
			Expect(log.Len() - 1).To(Equal(2))
		})

		It("omits the notice silently when the notice itself does not fit", func() {
			reserved := msgCost("sys") + msgCost("query")
			budget := reserved + msgCost("keep me") + 1
			log := memory.NewLog(est, budget, 0)
			log.Append(llm.NewTextMessage(llm.RoleUser, strings.Repeat("a", 100)))
			log.Append(llm.NewTextMessage(llm.RoleUser, "keep me"))

			ctx := log.BuildContext(system, current, 0)
			Expect(ctx).To(HaveLen(1))
			Expect(ctx[0].Content).To(Equal("keep me"))
		})

		It("does not mutate the stored log", func() {
			log := memory.NewLog(est, 30, 0)
			for i := range 10 {
				log.Append(llm.NewTextMessage(llm.RoleUser, fmt.Sprintf("m%d", i)))
			}
			before := log.Len()
			_ = log.BuildContext(system, current, 0)
			Expect(log.Len()).To(Equal(before))
		})
	})
})
