package index_test

import (
	"context"
	"fmt"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/embeddings"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/segment"
)

// stubEmbedder produces fixed vectors keyed by exact text, standing in for a
// real embedding backend.
type stubEmbedder struct {
	vectors map[string][]float64
	fail    bool
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.fail {
		return nil, fmt.Errorf("%w: stub offline", embeddings.ErrUnavailable)
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func (s *stubEmbedder) Model() string { return "stub-model" }
func (s *stubEmbedder) Close() error  { return nil }

func contractSegments() []segment.Segment {
	return []segment.Segment{
		{ID: "s1", Text: "This Agreement is governed by the laws of the State of New York."},
		{ID: "s2", Text: "Either party may terminate upon 30 days notice."},
		{ID: "s3", Text: "Fees are invoiced monthly and settled on a net basis."},
	}
}

var _ = Describe("Build", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("rejects an empty corpus", func() {
		_, err := index.Build(ctx, nil, index.Options{Engine: index.EngineSparse})
		Expect(err).To(MatchError(index.ErrEmptyCorpus))
	})

	It("rejects an unknown engine", func() {
		_, err := index.Build(ctx, contractSegments(), index.Options{Engine: "hybrid"})
		Expect(err).To(MatchError(index.ErrUnknownEngine))
	})

	It("keeps ids and texts parallel and in ingestion order", func() {
		segs := contractSegments()
		idx, err := index.Build(ctx, segs, index.Options{Engine: index.EngineSparse})
		Expect(err).NotTo(HaveOccurred())

		Expect(idx.IDs).To(Equal([]string{"s1", "s2", "s3"}))
		Expect(idx.Texts).To(HaveLen(len(segs)))
		Expect(idx.Sparse.Rows).To(HaveLen(len(segs)))
		Expect(idx.Meta.Count).To(Equal(len(segs)))
		Expect(idx.Meta.Engine).To(Equal("sparse"))
		Expect(idx.Meta.BuiltAt).To(BeNumerically(">", 0))
	})

	It("requires an embedder for the dense engine", func() {
		_, err := index.Build(ctx, contractSegments(), index.Options{Engine: index.EngineDense})
		Expect(err).To(MatchError(index.ErrBackendUnavailable))
	})

	It("surfaces an unavailable embedding backend", func() {
		_, err := index.Build(ctx, contractSegments(), index.Options{
			Engine:   index.EngineDense,
			Embedder: &stubEmbedder{fail: true},
		})
		Expect(err).To(MatchError(index.ErrBackendUnavailable))
	})

	It("builds a dense index with L2-normalized rows", func() {
		emb := &stubEmbedder{vectors: map[string][]float64{
			contractSegments()[0].Text: {3, 4, 0},
		}}
		idx, err := index.Build(ctx, contractSegments(), index.Options{
			Engine:   index.EngineDense,
			Embedder: emb,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Dense.Model).To(Equal("stub-model"))
		Expect(idx.Dense.Rows[0][0]).To(BeNumerically("~", 0.6, 1e-9))
		Expect(idx.Dense.Rows[0][1]).To(BeNumerically("~", 0.8, 1e-9))
	})
})

var _ = Describe("Search", func() {
	var (
		ctx context.Context
		idx *index.Index
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		idx, err = index.Build(ctx, contractSegments(), index.Options{Engine: index.EngineSparse})
		Expect(err).NotTo(HaveOccurred())
	})

	It("ranks the governing-law segment first for a law query", func() {
		cands, err := idx.Search(ctx, "governed by the laws of", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(cands[0].ID).To(Equal("s1"))
		Expect(cands[0].Score).To(BeNumerically(">", cands[1].Score))
	})

	It("is deterministic across repeated calls", func() {
		first, err := idx.Search(ctx, "termination notice", 3)
		Expect(err).NotTo(HaveOccurred())
		second, err := idx.Search(ctx, "termination notice", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("breaks ties by ingestion order", func() {
		cands, err := idx.Search(ctx, "zzz nothing matches zzz", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(cands).To(HaveLen(3))
		Expect(cands[0].ID).To(Equal("s1"))
		Expect(cands[1].ID).To(Equal("s2"))
		Expect(cands[2].ID).To(Equal("s3"))
	})

	It("caps n at the corpus size", func() {
		cands, err := idx.Search(ctx, "notice", 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(cands).To(HaveLen(3))
	})

	It("refuses dense search without an attached embedder", func() {
		emb := &stubEmbedder{}
		dense, err := index.Build(ctx, contractSegments(), index.Options{
			Engine:   index.EngineDense,
			Embedder: emb,
		})
		Expect(err).NotTo(HaveOccurred())

		reloaded := *dense
		detached := index.Index{
			Engine: reloaded.Engine,
			IDs:    reloaded.IDs,
			Texts:  reloaded.Texts,
			Dense:  reloaded.Dense,
			Meta:   reloaded.Meta,
		}
		_, err = detached.Search(ctx, "anything", 2)
		Expect(err).To(MatchError(index.ErrBackendUnavailable))
	})
})

var _ = Describe("Save and Load", func() {
	It("round-trips a sparse index byte-for-byte on search results", func() {
		ctx := context.Background()
		idx, err := index.Build(ctx, contractSegments(), index.Options{Engine: index.EngineSparse})
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(GinkgoT().TempDir(), "idx.bin")
		Expect(idx.Save(path)).To(Succeed())

		loaded, err := index.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Engine).To(Equal(index.EngineSparse))
		Expect(loaded.IDs).To(Equal(idx.IDs))
		Expect(loaded.Meta).To(Equal(idx.Meta))

		want, err := idx.Search(ctx, "laws of the state", 3)
		Expect(err).NotTo(HaveOccurred())
		got, err := loaded.Search(ctx, "laws of the state", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("round-trips a dense index once an embedder is reattached", func() {
		ctx := context.Background()
		emb := &stubEmbedder{}
		idx, err := index.Build(ctx, contractSegments(), index.Options{
			Engine:   index.EngineDense,
			Embedder: emb,
		})
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(GinkgoT().TempDir(), "idx.bin")
		Expect(idx.Save(path)).To(Succeed())

		loaded, err := index.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Dense.Model).To(Equal("stub-model"))

		loaded.AttachEmbedder(emb)
		cands, err := loaded.Search(ctx, "anything", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(cands).To(HaveLen(2))
	})
})

var _ = Describe("Handle", func() {
	It("starts empty when given nil", func() {
		h := index.NewHandle(nil)
		idx, version := h.Current()
		Expect(idx).To(BeNil())
		Expect(version).To(BeZero())
	})

	It("publishes new versions on swap", func() {
		ctx := context.Background()
		first, err := index.Build(ctx, contractSegments(), index.Options{Engine: index.EngineSparse})
		Expect(err).NotTo(HaveOccurred())

		h := index.NewHandle(first)
		_, v1 := h.Current()
		Expect(v1).To(Equal(uint64(1)))

		second, err := index.Build(ctx, contractSegments()[:1], index.Options{Engine: index.EngineSparse})
		Expect(err).NotTo(HaveOccurred())

		v2 := h.Swap(second)
		Expect(v2).To(Equal(uint64(2)))

		current, _ := h.Current()
		Expect(current.Meta.Count).To(Equal(1))
	})
})
