package eval_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/eval"
)

var _ = Describe("ComputeRanking", func() {
	It("returns all zeros for an empty hit list", func() {
		m := eval.ComputeRanking(nil, []string{"g1", "g2"}, 8)
		Expect(m).To(Equal(eval.RankingMetrics{}))
	})

	It("handles an empty gold set without dividing by zero", func() {
		m := eval.ComputeRanking([]string{"a", "b"}, nil, 8)
		Expect(m.Recall).To(Equal(0.0))
		Expect(m.Hit).To(Equal(0.0))
		Expect(m.MAP).To(Equal(0.0))
	})

	It("scores a perfect top-1 hit as ndcg 1.0", func() {
		m := eval.ComputeRanking([]string{"g1", "x", "y"}, []string{"g1"}, 3)
		Expect(m.NDCG).To(Equal(1.0))
		Expect(m.Hit).To(Equal(1.0))
		Expect(m.Recall).To(Equal(1.0))
		Expect(m.MRR).To(Equal(1.0))
		Expect(m.MAP).To(Equal(1.0))
	})

	It("discounts a gold hit at rank two", func() {
		m := eval.ComputeRanking([]string{"x", "g1"}, []string{"g1"}, 2)
		Expect(m.Hit).To(Equal(1.0))
		Expect(m.MRR).To(Equal(0.5))
		Expect(m.MAP).To(Equal(0.5))
		// single gold at rank 2: dcg = 1/log2(3), ideal places it at rank 1
		Expect(m.NDCG).To(BeNumerically("~", 0.6309, 0.001))
	})

	It("computes recall over the distinct gold set", func() {
		m := eval.ComputeRanking([]string{"g1", "x", "g2"}, []string{"g1", "g2", "g3", "g4"}, 3)
		Expect(m.Recall).To(Equal(0.5))
	})

	It("only counts hits inside the top k", func() {
		m := eval.ComputeRanking([]string{"x", "y", "g1"}, []string{"g1"}, 2)
		Expect(m.Hit).To(Equal(0.0))
		Expect(m.Recall).To(Equal(0.0))
	})
})

var _ = Describe("Reader metrics", func() {
	It("exact-matches modulo case, whitespace and quoting", func() {
		Expect(eval.ExactMatch(`"Net  30 Days"`, []string{"net 30 days"})).To(Equal(1.0))
		Expect(eval.ExactMatch("net 30 days", []string{"net 60 days"})).To(Equal(0.0))
	})

	It("takes the best F1 across references", func() {
		f := eval.TokenF1("payable net 30 days", []string{"sixty days", "invoices payable net 30 days"})
		Expect(f).To(BeNumerically(">", 0.8))
		Expect(f).To(BeNumerically("<=", 1.0))
	})

	It("scores full overlap as 1.0", func() {
		Expect(eval.TokenF1(`"net 30 days"`, []string{"Net 30 days"})).To(Equal(1.0))
	})

	It("scores disjoint answers as 0", func() {
		Expect(eval.TokenF1("alpha beta", []string{"gamma delta"})).To(Equal(0.0))
	})
})
