package segment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/segment"
)

var _ = Describe("Load", func() {
	It("loads id/text items and normalizes whitespace", func() {
		data := []byte(`[
			{"id": "s1", "text": "This  Agreement\n is governed.", "title": "Law", "level": 2},
			{"id": "s2", "text": "Either party may terminate."}
		]`)

		doc, err := segment.Load(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Segments).To(HaveLen(2))
		Expect(doc.Segments[0].ID).To(Equal("s1"))
		Expect(doc.Segments[0].Text).To(Equal("This Agreement is governed."))
		Expect(doc.Segments[0].Title).To(Equal("Law"))
		Expect(*doc.Segments[0].Level).To(Equal(2))
		Expect(doc.Segments[1].Level).To(BeNil())
	})

	It("accepts numeric ids", func() {
		doc, err := segment.Load([]byte(`[{"id": 7, "text": "clause text"}]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Segments[0].ID).To(Equal("7"))
	})

	It("captures full_text items separately", func() {
		data := []byte(`[
			{"full_text": "entire contract body"},
			{"id": "a", "text": "one clause"}
		]`)

		doc, err := segment.Load(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.FullText).To(Equal("entire contract body"))
		Expect(doc.Segments).To(HaveLen(1))
	})

	It("supports the items-object wrapper form", func() {
		data := []byte(`{"items": [{"id": "x", "text": "wrapped"}]}`)
		doc, err := segment.Load(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Segments).To(HaveLen(1))
	})

	It("returns ErrNoSegments when nothing usable is present", func() {
		_, err := segment.Load([]byte(`[{"full_text": "only full text"}]`))
		Expect(err).To(MatchError(segment.ErrNoSegments))
	})

	It("rejects malformed JSON", func() {
		_, err := segment.Load([]byte(`{not json`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NormalizeSpace", func() {
	It("collapses interior whitespace and trims the ends", func() {
		Expect(segment.NormalizeSpace("  a \t b\n\nc ")).To(Equal("a b c"))
	})
})
