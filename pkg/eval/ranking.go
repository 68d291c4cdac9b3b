package eval

import (
	"math"
	"sort"
)

// RankingMetrics are the standard ranked-retrieval quality measures over
// the top-k hits of one query.
type RankingMetrics struct {
	Hit    float64
	Recall float64
	MRR    float64
	NDCG   float64
	MAP    float64
}

// ComputeRanking scores an ordered hit-id list against a gold-id set.
// Empty hit lists yield all-zero metrics. nDCG uses binary gains with a
// log2(rank+1) discount, normalized by the same gains sorted descending;
// when no retrieved hit is gold the ideal gain is empty and the
// conventional value is 1.0.
func ComputeRanking(hitIDs, goldIDs []string, k int) RankingMetrics {
	if k > 0 && len(hitIDs) > k {
		hitIDs = hitIDs[:k]
	}
	if len(hitIDs) == 0 {
		return RankingMetrics{}
	}

	gold := make(map[string]struct{}, len(goldIDs))
	for _, id := range goldIDs {
		gold[id] = struct{}{}
	}
	goldDenom := len(gold)
	if goldDenom == 0 {
		goldDenom = 1
	}

	var m RankingMetrics
	gains := make([]float64, len(hitIDs))
	retrieved := map[string]struct{}{}
	var sumPrecision float64
	goldSoFar := 0

	for i, id := range hitIDs {
		if _, ok := gold[id]; !ok {
			continue
		}
		gains[i] = 1
		retrieved[id] = struct{}{}
		goldSoFar++
		sumPrecision += float64(goldSoFar) / float64(i+1)
		if m.MRR == 0 {
			m.MRR = 1 / float64(i+1)
		}
	}

	if len(retrieved) > 0 {
		m.Hit = 1
	}
	m.Recall = float64(len(retrieved)) / float64(goldDenom)
	m.MAP = sumPrecision / float64(goldDenom)

	var dcg float64
	for i, g := range gains {
		dcg += g / math.Log2(float64(i+2))
	}
	ideal := append([]float64(nil), gains...)
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	var idcg float64
	for i, g := range ideal {
		idcg += g / math.Log2(float64(i+2))
	}
	if idcg == 0 {
		m.NDCG = 1
	} else {
		m.NDCG = dcg / idcg
	}

	return m
}
