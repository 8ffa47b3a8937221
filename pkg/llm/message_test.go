package llm_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

var _ = Describe("Message serialization", func() {
	It("always serializes content for assistant messages, even when empty", func() {
		msg := llm.Message{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Type: "function", Function: llm.FunctionCall{Name: "list_tasks", Arguments: "{}"}},
			},
		}

		data, err := json.Marshal(msg)
		Expect(err).NotTo(HaveOccurred())

		var parsed map[string]any
		Expect(json.Unmarshal(data, &parsed)).To(Succeed())
		Expect(parsed).To(HaveKeyWithValue("content", ""))
		Expect(parsed).To(HaveKey("tool_calls"))
	})

	It("omits content entirely for tool messages with empty content", func() {
		msg := llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: "call_1",
			Name:       "list_tasks",
		}

		data, err := json.Marshal(msg)
		Expect(err).NotTo(HaveOccurred())

		var parsed map[string]any
		Expect(json.Unmarshal(data, &parsed)).To(Succeed())
		Expect(parsed).NotTo(HaveKey("content"))
		Expect(parsed).To(HaveKeyWithValue("tool_call_id", "call_1"))
		Expect(parsed).To(HaveKeyWithValue("name", "list_tasks"))
	})

	It("keeps content for tool messages that carry a result", func() {
		msg := llm.NewToolMessage("call_2", "run_command", "exit 0")

		data, err := json.Marshal(msg)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"content":"exit 0"`))
	})

	It("serializes empty content for system and user messages", func() {
		for _, role := range []string{llm.RoleSystem, llm.RoleUser} {
			data, err := json.Marshal(llm.NewTextMessage(role, ""))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"content":""`))
		}
	})

	It("treats null content as empty on unmarshal", func() {
		var msg llm.Message
		err := json.Unmarshal([]byte(`{"role":"assistant","content":null}`), &msg)
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Content).To(Equal(""))
	})

	It("round-trips tool call arguments as raw JSON text", func() {
		raw := `{"role":"assistant","content":"","tool_calls":[{"id":"c1","type":"function","function":{"name":"web_search","arguments":"{\"query\":\"golang\"}"}}]}`

		var msg llm.Message
		Expect(json.Unmarshal([]byte(raw), &msg)).To(Succeed())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Function.Arguments).To(Equal(`{"query":"golang"}`))
	})
})

var _ = Describe("Completion", func() {
	It("reports tool calls when present", func() {
		c := &llm.Completion{ToolCalls: []llm.ToolCall{{ID: "c1"}}}
		Expect(c.HasToolCalls()).To(BeTrue())
	})

	It("reports no tool calls for empty or nil completions", func() {
		Expect((&llm.Completion{}).HasToolCalls()).To(BeFalse())
		var c *llm.Completion
		Expect(c.HasToolCalls()).To(BeFalse())
	})
})
