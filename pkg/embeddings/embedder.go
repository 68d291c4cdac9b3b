// Package embeddings defines the text embedding contract used by the dense
// index engine. The backend is caller-owned and passed in explicitly; the
// engine never reaches for a process-wide model cache.
package embeddings

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the embedding backend cannot be reached.
// The dense index build surfaces this so callers may fall back to the sparse
// engine.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Model returns the identifier of the embedding model, recorded in the
	// index blob so a reloaded index can verify it is paired with the same
	// backend.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}
