package search

import (
	"context"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/rewrite"
)

// poolSize is the minimum candidate pool requested from the index. The pool
// is deliberately larger than the final k so the diversifier has material to
// trade relevance against redundancy with.
const poolSize = 50

// Retrieve expands the raw query with intent boost terms, then searches the
// index for a stable candidate pool of size max(k, poolSize).
func Retrieve(ctx context.Context, idx *index.Index, rawQuery string, k int) ([]index.Candidate, error) {
	q := rewrite.Rewrite(rawQuery)

	n := k
	if n < poolSize {
		n = poolSize
	}
	return idx.Search(ctx, q, n)
}
