package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/llm"
)

var testHits = []index.Candidate{
	{ID: "s1", Score: 0.9, Text: "This Agreement is governed by the laws of the State of New York."},
	{ID: "s2", Score: 0.4, Text: "Either party may terminate upon 30 days notice."},
}

func chatServer(reply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/api/chat"))
		Expect(r.Method).To(Equal(http.MethodPost))

		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
		Expect(req.Stream).To(BeFalse())
		Expect(req.Messages).To(HaveLen(2))
		Expect(req.Messages[1].Content).To(ContainSubstring("id=s1"))

		resp := map[string]any{
			"message": map[string]string{"role": "assistant", "content": reply},
			"done":    true,
		}
		Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
	}))
}

var _ = Describe("Client", func() {
	It("returns the model's answer with validated citations", func() {
		srv := chatServer(`{"answer": "the laws of the State of New York", "citations": ["s1", "bogus"]}`)
		defer srv.Close()

		c, err := llm.NewClient(llm.ClientConfig{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		res, err := c.Answer(context.Background(), "What is the governing law?", testHits)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Answer).To(Equal("the laws of the State of New York"))
		Expect(res.Citations).To(Equal([]string{"s1"}))
	})

	It("attributes a non-JSON reply to the containing hit", func() {
		srv := chatServer("Either party may terminate upon 30 days notice.")
		defer srv.Close()

		c, err := llm.NewClient(llm.ClientConfig{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		res, err := c.Answer(context.Background(), "How can the contract be terminated?", testHits)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Citations).To(Equal([]string{"s2"}))
	})

	It("maps a NOT_FOUND reply to the sentinel result", func() {
		srv := chatServer(`{"answer": "NOT_FOUND", "citations": []}`)
		defer srv.Close()

		c, err := llm.NewClient(llm.ClientConfig{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		res, err := c.Answer(context.Background(), "What is the escrow agent's fee?", testHits)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(answer.NotFound()))
	})

	It("errors when the backend is unreachable", func() {
		c, err := llm.NewClient(llm.ClientConfig{BaseURL: "http://127.0.0.1:1"})
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Answer(context.Background(), "anything", testHits)
		Expect(err).To(HaveOccurred())
	})
})
