package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/boarnasia/tinyagents/pkg/llm"
	"github.com/boarnasia/tinyagents/pkg/llm/provider/ollama"
)

var _ = Describe("Backend", func() {
	It("requests a non-streaming completion and parses content", func() {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
			Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
		}))
		defer server.Close()

		backend := ollama.New(ollama.Config{BaseURL: server.URL, Model: "llama3.2"})
		completion, err := backend.Complete(context.Background(),
			[]llm.Message{llm.NewTextMessage(llm.RoleUser, "ping")}, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(completion.Content).To(Equal("pong"))
		Expect(gotBody["stream"]).To(BeFalse())
		Expect(gotBody["model"]).To(Equal("llama3.2"))
	})

	It("surfaces transport failures as errors", func() {
		backend := ollama.New(ollama.Config{BaseURL: "http://127.0.0.1:1", Model: "llama3.2"})
		_, err := backend.Complete(context.Background(), nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
