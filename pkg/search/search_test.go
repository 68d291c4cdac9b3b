package search_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/search"
	"github.com/docketlab/clausehound/pkg/segment"
)

func cand(id string, score float64, text string) index.Candidate {
	return index.Candidate{ID: id, Score: score, Text: text}
}

var _ = Describe("Diversify", func() {
	It("returns small pools unchanged", func() {
		pool := []index.Candidate{
			cand("a", 0.9, "alpha beta"),
			cand("b", 0.8, "gamma delta"),
		}
		out := search.Diversify(pool, 5, 0.75)
		Expect(out).To(Equal(pool))
	})

	It("never repeats an id and returns min(k, len) hits", func() {
		var pool []index.Candidate
		for i := 0; i < 20; i++ {
			pool = append(pool, cand(fmt.Sprintf("c%d", i), 1-float64(i)/20, fmt.Sprintf("clause number %d body", i)))
		}
		out := search.Diversify(pool, 8, 0.75)
		Expect(out).To(HaveLen(8))
		seen := map[string]bool{}
		for _, c := range out {
			Expect(seen[c.ID]).To(BeFalse())
			seen[c.ID] = true
		}
	})

	It("prefers a distinct candidate over a near-duplicate of the leader", func() {
		pool := []index.Candidate{
			cand("lead", 1.0, "payment due within thirty days of invoice"),
			cand("dupe", 0.6, "payment due within thirty days of invoice"),
			cand("other", 0.5, "confidential information survives termination"),
		}
		out := search.Diversify(pool, 2, 0.75)
		Expect(out[0].ID).To(Equal("lead"))
		Expect(out[1].ID).To(Equal("other"))
	})

	It("is deterministic", func() {
		var pool []index.Candidate
		for i := 0; i < 10; i++ {
			pool = append(pool, cand(fmt.Sprintf("d%d", i), 0.5, "identical text everywhere"))
		}
		first := search.Diversify(pool, 4, 0.75)
		second := search.Diversify(pool, 4, 0.75)
		Expect(second).To(Equal(first))
	})

	It("treats zero scores and empty texts without dividing by zero", func() {
		pool := []index.Candidate{
			cand("z1", 0, ""),
			cand("z2", 0, ""),
			cand("z3", 0, ""),
		}
		out := search.Diversify(pool, 2, 0.75)
		Expect(out).To(HaveLen(2))
	})
})

func buildSparse(texts map[string]string, order []string) *index.Index {
	segs := make([]segment.Segment, 0, len(order))
	for _, id := range order {
		segs = append(segs, segment.Segment{ID: id, Text: texts[id]})
	}
	idx, err := index.Build(context.Background(), segs, index.Options{Engine: index.EngineSparse})
	Expect(err).NotTo(HaveOccurred())
	return idx
}

var _ = Describe("Retrieve", func() {
	It("is deterministic for the sparse engine", func() {
		idx := buildSparse(map[string]string{
			"a": "governed by the laws of the State of New York",
			"b": "terminate upon thirty days written notice",
			"c": "fees are payable net 30 days from invoice",
			"d": "confidential information shall remain confidential",
		}, []string{"a", "b", "c", "d"})

		first, err := search.Retrieve(context.Background(), idx, "What is the governing law?", 2)
		Expect(err).NotTo(HaveOccurred())
		second, err := search.Retrieve(context.Background(), idx, "What is the governing law?", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("returns the whole corpus when it is smaller than the pool floor", func() {
		idx := buildSparse(map[string]string{
			"a": "one clause",
			"b": "another clause",
		}, []string{"a", "b"})

		out, err := search.Retrieve(context.Background(), idx, "clause", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(2))
	})
})

var _ = Describe("Ask", func() {
	It("answers the governing-law scenario end to end", func() {
		idx := buildSparse(map[string]string{
			"s1": "This Agreement is governed by the laws of the State of New York.",
			"s2": "Either party may terminate upon 30 days notice.",
		}, []string{"s1", "s2"})

		out, err := search.Ask(context.Background(), idx, "What is the governing law?", search.Options{K: 2})
		Expect(err).NotTo(HaveOccurred())

		Expect(out.Query).To(Equal("What is the governing law?"))
		Expect(out.Hits).NotTo(BeEmpty())
		Expect(out.Hits[0].ID).To(Equal("s1"))
		Expect(out.Result.Answer).To(HavePrefix(`"`))
		Expect(out.Result.Answer).To(ContainSubstring("laws of the State of New York"))
		Expect(out.Result.Citations).To(Equal([]string{"s1"}))
	})

	It("caps contexts at k and mirrors hit ids", func() {
		texts := map[string]string{}
		order := []string{}
		for i := 0; i < 12; i++ {
			id := fmt.Sprintf("s%d", i)
			texts[id] = fmt.Sprintf("section %d covers obligations of the parties", i)
			order = append(order, id)
		}
		idx := buildSparse(texts, order)

		out, err := search.Ask(context.Background(), idx, "obligations of the parties", search.Options{K: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Hits).To(HaveLen(3))
		Expect(out.Contexts).To(HaveLen(3))
		for i, c := range out.Contexts {
			Expect(c.ID).To(Equal(out.Hits[i].ID))
			Expect(c.Text).NotTo(BeEmpty())
		}
	})

	It("reports per-stage timings", func() {
		idx := buildSparse(map[string]string{"a": "some text"}, []string{"a"})

		out, err := search.Ask(context.Background(), idx, "some text", search.Options{LoadIndexMS: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.TimingsMS.LoadIdx).To(Equal(5.0))
		Expect(out.TimingsMS.Total).To(BeNumerically(">=", 5.0))
		Expect(out.TimingsMS.Retrieval).To(BeNumerically(">=", 0))
	})

	It("fails closed in generative mode without a backend", func() {
		idx := buildSparse(map[string]string{"a": "some text"}, []string{"a"})

		out, err := search.Ask(context.Background(), idx, "some text", search.Options{Mode: search.ModeGenerative})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Result.Answer).To(Equal("NOT_FOUND"))
		Expect(out.Result.Citations).To(BeEmpty())
	})
})
