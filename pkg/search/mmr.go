package search

import (
	"math"
	"strings"

	"github.com/docketlab/clausehound/pkg/index"
)

// DefaultLambda is the relevance/diversity trade-off used when the caller
// does not supply one. 1.0 is pure relevance, 0.0 pure diversity.
const DefaultLambda = 0.75

// Diversify re-ranks a candidate pool with maximal marginal relevance and
// returns the top k. Pools of k or fewer come back unchanged. Redundancy is
// measured over simple token-count vectors of the candidate texts rather
// than the index representation, so the trade-off is engine-independent.
// Deterministic for identical inputs.
func Diversify(cands []index.Candidate, k int, lambda float64) []index.Candidate {
	if len(cands) <= k {
		return cands
	}

	rel := make([]float64, len(cands))
	maxScore := 0.0
	for _, c := range cands {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}
	for i, c := range cands {
		rel[i] = c.Score / maxScore
	}

	vecs := make([]termVec, len(cands))
	for i, c := range cands {
		vecs[i] = newTermVec(c.Text)
	}

	selected := make([]int, 0, k)
	used := make([]bool, len(cands))

	// Seed with the most relevant candidate, then greedily add the
	// candidate that best balances relevance against its closest
	// already-selected neighbor. Ties keep the earliest pool position.
	for len(selected) < k {
		bestIdx := -1
		bestVal := math.Inf(-1)
		for j := range cands {
			if used[j] {
				continue
			}
			val := rel[j]
			if len(selected) > 0 {
				maxSim := 0.0
				for _, s := range selected {
					if sim := vecs[j].cosine(vecs[s]); sim > maxSim {
						maxSim = sim
					}
				}
				val = lambda*rel[j] - (1-lambda)*maxSim
			}
			if val > bestVal {
				bestVal = val
				bestIdx = j
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, bestIdx)
	}

	out := make([]index.Candidate, 0, len(selected))
	for _, i := range selected {
		out = append(out, cands[i])
	}
	return out
}

// termVec is a token-count bag of words with its precomputed norm.
type termVec struct {
	counts map[string]float64
	norm   float64
}

func newTermVec(text string) termVec {
	counts := map[string]float64{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		counts[tok]++
	}
	var sq float64
	for _, c := range counts {
		sq += c * c
	}
	return termVec{counts: counts, norm: math.Sqrt(sq)}
}

// cosine between two all-zero vectors is defined as 0.
func (v termVec) cosine(o termVec) float64 {
	if v.norm == 0 || o.norm == 0 {
		return 0
	}
	a, b := v, o
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	var dot float64
	for tok, c := range a.counts {
		if oc, ok := b.counts[tok]; ok {
			dot += c * oc
		}
	}
	return dot / (v.norm * o.norm)
}
