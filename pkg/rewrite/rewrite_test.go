package rewrite_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/rewrite"
)

var _ = Describe("Rewrite", func() {
	It("returns the query unchanged when no intent matches", func() {
		q := "What color is the binder?"
		Expect(rewrite.Rewrite(q)).To(Equal(q))
	})

	It("appends governing-law boosts", func() {
		out := rewrite.Rewrite("What is the governing law?")
		Expect(out).To(HavePrefix("What is the governing law? "))
		Expect(out).To(ContainSubstring(`"governing law"`))
		Expect(out).To(ContainSubstring("construed"))
		Expect(out).To(ContainSubstring("laws of"))
	})

	It("matches intents case-insensitively", func() {
		out := rewrite.Rewrite("TERMINATION rights?")
		Expect(out).To(ContainSubstring("prior written notice"))
	})

	It("stacks boosts when multiple intents fire", func() {
		out := rewrite.Rewrite("Can the parties terminate for unpaid fees?")
		Expect(out).To(ContainSubstring("termination"))
		Expect(out).To(ContainSubstring("invoice"))
		Expect(out).To(ContainSubstring("by and among"))
	})

	It("is deterministic", func() {
		q := "payment terms?"
		Expect(rewrite.Rewrite(q)).To(Equal(rewrite.Rewrite(q)))
	})
})
