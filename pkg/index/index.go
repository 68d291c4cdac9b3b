// Package index builds and searches the per-document vector index. An Index
// is a tagged variant: exactly one of the sparse (TF-IDF) or dense
// (embedding) representations is populated, and consumers switch on Engine
// rather than probing for fields.
//
// An Index is immutable once built and safe for concurrent reads. Rebuilds
// produce a new instance; serving code swaps the active one through a Handle.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/embeddings"
	"github.com/docketlab/clausehound/pkg/segment"
)

var (
	// ErrEmptyCorpus is returned when Build is given no segments.
	ErrEmptyCorpus = errors.New("index build requires at least one segment")

	// ErrBackendUnavailable is returned when the dense engine is requested
	// but the embedding backend is missing or unreachable. Callers may fall
	// back to the sparse engine.
	ErrBackendUnavailable = errors.New("embedding backend unavailable")

	// ErrUnknownEngine is returned for an engine name that is neither
	// sparse nor dense.
	ErrUnknownEngine = errors.New("unknown index engine")
)

// Engine selects the vector representation of an index.
type Engine string

const (
	// EngineSparse is the TF-IDF weighted n-gram representation.
	EngineSparse Engine = "sparse"

	// EngineDense is the sentence-embedding representation.
	EngineDense Engine = "dense"
)

// ParseEngine validates an engine name from config or CLI flags.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case EngineSparse, EngineDense:
		return Engine(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// Meta describes a built index.
type Meta struct {
	Engine  string `json:"engine"`
	BuiltAt int64  `json:"built_at"`
	Count   int    `json:"count"`
}

// Candidate is one scored retrieval result. Score is a cosine similarity;
// higher means more relevant.
type Candidate struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text,omitempty"`
}

// Index holds the segment table plus one engine-specific representation.
type Index struct {
	Engine Engine
	IDs    []string
	Texts  []string
	Sparse *SparseState
	Dense  *DenseState
	Meta   Meta

	// embedder projects queries for the dense engine. Not serialized;
	// reattached after Load via AttachEmbedder.
	embedder embeddings.Embedder
}

// Options configures Build.
type Options struct {
	Engine Engine

	// Embedder is required for the dense engine and ignored otherwise.
	Embedder embeddings.Embedder

	Logger *zap.Logger
}

// Build constructs an index over the given segments. The segment slice must
// be non-empty; ids keep their ingestion order.
func Build(ctx context.Context, segments []segment.Segment, opts Options) (*Index, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyCorpus
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ids := make([]string, len(segments))
	texts := make([]string, len(segments))
	for i, s := range segments {
		ids[i] = s.ID
		texts[i] = s.Text
	}

	idx := &Index{
		Engine: opts.Engine,
		IDs:    ids,
		Texts:  texts,
		Meta: Meta{
			Engine:  string(opts.Engine),
			BuiltAt: time.Now().Unix(),
			Count:   len(segments),
		},
	}

	switch opts.Engine {
	case EngineSparse:
		idx.Sparse = fitSparse(texts)

	case EngineDense:
		if opts.Embedder == nil {
			return nil, fmt.Errorf("%w: dense engine requires an embedder", ErrBackendUnavailable)
		}
		dense, err := fitDense(ctx, texts, opts.Embedder)
		if err != nil {
			return nil, err
		}
		idx.Dense = dense
		idx.embedder = opts.Embedder

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}

	logger.Info("index built",
		zap.String("engine", string(opts.Engine)),
		zap.Int("segments", len(segments)),
	)

	return idx, nil
}

// AttachEmbedder pairs a loaded dense index with its query-side embedding
// backend. No-op for sparse indexes.
func (idx *Index) AttachEmbedder(e embeddings.Embedder) {
	idx.embedder = e
}

// Search scores the query against every row and returns the top n candidates
// by descending cosine similarity. Ties keep ingestion order (stable sort);
// the search is exact for both engines.
func (idx *Index) Search(ctx context.Context, query string, n int) ([]Candidate, error) {
	var scores []float64

	switch idx.Engine {
	case EngineSparse:
		scores = idx.Sparse.score(query)

	case EngineDense:
		if idx.embedder == nil {
			return nil, fmt.Errorf("%w: dense index has no attached embedder", ErrBackendUnavailable)
		}
		qv, err := idx.embedder.Embed(ctx, query)
		if err != nil {
			if errors.Is(err, embeddings.ErrUnavailable) {
				return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
			}
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		scores = idx.Dense.score(qv)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, idx.Engine)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	if n < 0 {
		n = 0
	}

	out := make([]Candidate, 0, n)
	for _, i := range order[:n] {
		out = append(out, Candidate{ID: idx.IDs[i], Score: scores[i], Text: idx.Texts[i]})
	}
	return out, nil
}
