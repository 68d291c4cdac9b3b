package answer_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/index"
)

func hit(id, text string) index.Candidate {
	return index.Candidate{ID: id, Score: 1, Text: text}
}

var _ = Describe("Extract", func() {
	It("returns the sentinel for empty hits", func() {
		res := answer.Extract("anything", nil)
		Expect(res.Answer).To(Equal(answer.NotFoundAnswer))
		Expect(res.Citations).To(BeEmpty())
	})

	Describe("governing law", func() {
		It("prefers a single-hit laws-of sentence with a single citation", func() {
			hits := []index.Candidate{
				hit("s2", "Either party may terminate upon 30 days notice."),
				hit("s1", "This Agreement is governed by the laws of the State of New York."),
			}
			res := answer.Extract("What is the governing law?", hits)
			Expect(res.Answer).To(ContainSubstring("laws of the State of New York"))
			Expect(res.Answer).To(HavePrefix(`"`))
			Expect(res.Answer).To(HaveSuffix(`"`))
			Expect(res.Citations).To(Equal([]string{"s1"}))
		})

		It("skips laws-of sentences that are too short to be a clause", func() {
			hits := []index.Candidate{
				hit("s1", "Laws of X apply."),
				hit("s2", "This Agreement shall be construed and enforced in accordance with the laws of the State of Delaware."),
			}
			res := answer.Extract("governing law?", hits)
			// The 30-char floor rejects the first hit's stub sentence;
			// the scan moves on to the full clause in the second hit.
			Expect(res.Answer).NotTo(Equal(`"Laws of X apply."`))
			Expect(res.Answer).To(ContainSubstring("Delaware"))
			Expect(res.Citations).To(Equal([]string{"s2"}))
		})
	})

	Describe("termination", func() {
		It("extracts a termination clause and keeps only its first line", func() {
			hits := []index.Candidate{
				hit("t1", "Either party may terminate this Agreement upon thirty days prior written notice."),
			}
			res := answer.Extract("When can we terminate?", hits)
			Expect(res.Answer).To(ContainSubstring("terminate this Agreement"))
			Expect(res.Answer).NotTo(ContainSubstring("\n"))
			Expect(res.Citations).To(Equal([]string{"t1"}))
		})
	})

	Describe("payment", func() {
		It("matches net-days payment terms", func() {
			hits := []index.Candidate{
				hit("p1", "All invoices are payable net 30 days from receipt."),
			}
			res := answer.Extract("What are the payment terms?", hits)
			Expect(res.Answer).To(ContainSubstring("net 30 days"))
			Expect(res.Citations).To(Equal([]string{"p1"}))
		})
	})

	Describe("liability cap", func() {
		It("extracts an aggregate liability cap", func() {
			text := "IN NO EVENT shall either party's aggregate liability exceed the fees paid in the twelve (12) months preceding the claim."
			hits := []index.Candidate{hit("l1", text)}
			res := answer.Extract("Is there a liability cap?", hits)
			Expect(res.Answer).To(ContainSubstring("aggregate liability"))
			Expect(res.Citations).To(Equal([]string{"l1"}))
		})
	})

	Describe("confidentiality", func() {
		It("extracts confidentiality language", func() {
			hits := []index.Candidate{
				hit("c1", "Each party shall keep Confidential Information strictly confidential for five years."),
			}
			res := answer.Extract("What are the confidentiality obligations?", hits)
			Expect(res.Answer).To(ContainSubstring("onfidential"))
			Expect(res.Citations).To(Equal([]string{"c1"}))
		})
	})

	Describe("citation attribution", func() {
		It("falls back to the top five hit ids when no hit contains the span", func() {
			// Span assembled across two hits: neither contains it whole.
			hits := []index.Candidate{
				hit("a", "The parties agree to settle all charges arising"),
				hit("b", "on a net basis each quarter."),
				hit("c", "filler one."),
				hit("d", "filler two."),
				hit("e", "filler three."),
				hit("f", "filler four."),
			}
			res := answer.Extract("How do the parties settle charges?", hits)
			Expect(res.Answer).To(ContainSubstring("settle all charges"))
			Expect(res.Citations).To(Equal([]string{"a", "b", "c", "d", "e"}))
		})
	})

	Describe("lexical fallback", func() {
		It("picks the sentence covering the most query terms", func() {
			hits := []index.Candidate{
				hit("x", "The warranty period is ninety days. Deliverables are accepted upon written approval by the customer."),
			}
			res := answer.Extract("How are deliverables accepted by the customer?", hits)
			Expect(res.Answer).To(ContainSubstring("Deliverables are accepted"))
			Expect(res.Citations).To(Equal([]string{"x"}))
		})
	})

	Describe("last resort", func() {
		It("returns the first line of the top hit when nothing matches", func() {
			hits := []index.Candidate{
				hit("z1", "Exhibit B diagram\nsecond line"),
				hit("z2", "Appendix C schedule"),
			}
			res := answer.Extract("qqq www eee", hits)
			Expect(res.Answer).To(Equal(`"Exhibit B diagram"`))
			Expect(res.Answer).NotTo(BeEmpty())
			Expect(res.Citations).To(Equal([]string{"z1"}))
		})
	})

	It("caps answers at 700 characters plus quotes", func() {
		long := "terminate "
		for len(long) < 790 {
			long += "and further provisions apply "
		}
		long += "end."
		hits := []index.Candidate{hit("big", long)}
		res := answer.Extract("terminate?", hits)
		Expect(len(res.Answer)).To(BeNumerically("<=", 702))
	})
})

type stubGenerative struct {
	res   answer.Result
	err   error
	sleep time.Duration
}

func (s *stubGenerative) Answer(ctx context.Context, _ string, _ []index.Candidate) (answer.Result, error) {
	if s.sleep > 0 {
		select {
		case <-time.After(s.sleep):
		case <-ctx.Done():
			return answer.Result{}, ctx.Err()
		}
	}
	return s.res, s.err
}

var _ = Describe("Generate", func() {
	hits := []index.Candidate{hit("s1", "governed by the laws of New York.")}

	It("returns the sentinel when no backend is configured", func() {
		res := answer.Generate(context.Background(), nil, "q", hits, 0, nil)
		Expect(res).To(Equal(answer.NotFound()))
	})

	It("returns the sentinel on backend error", func() {
		g := &stubGenerative{err: errors.New("boom")}
		res := answer.Generate(context.Background(), g, "q", hits, 0, nil)
		Expect(res).To(Equal(answer.NotFound()))
	})

	It("fails closed on timeout", func() {
		g := &stubGenerative{sleep: time.Second, res: answer.Result{Answer: "late"}}
		res := answer.Generate(context.Background(), g, "q", hits, 10*time.Millisecond, nil)
		Expect(res).To(Equal(answer.NotFound()))
	})

	It("passes through a grounded answer", func() {
		g := &stubGenerative{res: answer.Result{Answer: `"laws of New York"`, Citations: []string{"s1"}}}
		res := answer.Generate(context.Background(), g, "q", hits, 0, nil)
		Expect(res.Answer).To(Equal(`"laws of New York"`))
		Expect(res.Citations).To(Equal([]string{"s1"}))
	})

	It("normalizes nil citations", func() {
		g := &stubGenerative{res: answer.Result{Answer: "ok"}}
		res := answer.Generate(context.Background(), g, "q", hits, 0, nil)
		Expect(res.Citations).NotTo(BeNil())
	})
})
