package mcp

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/segment"
)

func buildHandle() *index.Handle {
	idx, err := index.Build(context.Background(), []segment.Segment{
		{ID: "s1", Text: "This Agreement is governed by the laws of the State of New York."},
		{ID: "s2", Text: "Either party may terminate upon 30 days notice."},
	}, index.Options{Engine: index.EngineSparse})
	Expect(err).NotTo(HaveOccurred())
	return index.NewHandle(idx)
}

var _ = Describe("NewServer", func() {
	It("requires an index handle", func() {
		_, err := NewServer(Config{Logger: zap.NewNop()})
		Expect(err).To(HaveOccurred())
	})

	It("requires a logger", func() {
		_, err := NewServer(Config{Handle: buildHandle()})
		Expect(err).To(HaveOccurred())
	})

	It("builds a noop server without dependencies", func() {
		s, err := NewServer(Config{Noop: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(s).NotTo(BeNil())
	})

	It("exposes an HTTP handler", func() {
		s, err := NewServer(Config{Handle: buildHandle(), DefaultK: 8, DefaultLambda: 0.75, Logger: zap.NewNop()})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Handler()).NotTo(BeNil())
	})
})

var _ = Describe("handleAsk", func() {
	It("answers a question against the active index", func() {
		s, err := NewServer(Config{Handle: buildHandle(), DefaultK: 8, DefaultLambda: 0.75, Logger: zap.NewNop()})
		Expect(err).NotTo(HaveOccurred())

		result, out, err := s.handleAsk(context.Background(), nil, AskInput{Question: "What is the governing law?"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(out).NotTo(BeNil())
		Expect(out.Result.Answer).To(ContainSubstring("laws of the State of New York"))
		Expect(out.Result.Citations).To(Equal([]string{"s1"}))
	})

	It("reports an error result when no index is loaded", func() {
		s, err := NewServer(Config{Handle: index.NewHandle(nil), DefaultK: 8, Logger: zap.NewNop()})
		Expect(err).NotTo(HaveOccurred())

		result, out, err := s.handleAsk(context.Background(), nil, AskInput{Question: "anything"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
		Expect(out).To(BeNil())
	})
})
