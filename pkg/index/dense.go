package index

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/docketlab/clausehound/pkg/embeddings"
)

// DenseState is the embedding matrix for the dense engine. Rows are
// L2-normalized; the model name ties a persisted index back to the backend
// that produced it.
type DenseState struct {
	Model string
	Rows  [][]float64
}

// fitDense encodes every segment through the supplied embedder.
func fitDense(ctx context.Context, texts []string, embedder embeddings.Embedder) (*DenseState, error) {
	state := &DenseState{
		Model: embedder.Model(),
		Rows:  make([][]float64, len(texts)),
	}

	for i, text := range texts {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			if errors.Is(err, embeddings.ErrUnavailable) {
				return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
			}
			return nil, fmt.Errorf("embedding segment %d: %w", i, err)
		}
		state.Rows[i] = l2normalize(vec)
	}
	return state, nil
}

// score computes cosine similarity of the (normalized) query embedding
// against every row.
func (d *DenseState) score(query []float64) []float64 {
	q := l2normalize(query)
	scores := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		var dot float64
		n := len(row)
		if len(q) < n {
			n = len(q)
		}
		for j := 0; j < n; j++ {
			dot += row[j] * q[j]
		}
		scores[i] = dot
	}
	return scores
}

func l2normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
