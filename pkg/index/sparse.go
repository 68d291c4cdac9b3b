package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	// ngramMax bounds n-gram length: unigrams through trigrams.
	ngramMax = 3

	// maxDocFreq drops terms appearing in more than this fraction of
	// segments; boilerplate like "the agreement" carries no signal.
	maxDocFreq = 0.95

	// maxFeatures caps the vocabulary at the most frequent terms.
	maxFeatures = 120_000
)

// tokenRE keeps word runs of length >= 2, including hyphenated legal terms
// ("pass-through", "non-disclosure").
var tokenRE = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_\-]+`)

// SparseState is the TF-IDF vectorizer state plus the row matrix. Rows are
// L2-normalized so cosine similarity reduces to a dot product.
type SparseState struct {
	Vocab map[string]int32
	IDF   []float64
	Rows  []SparseVec
}

// SparseVec is one L2-normalized TF-IDF row in coordinate form, indices
// ascending.
type SparseVec struct {
	Idx []int32
	Val []float64
}

func tokenize(text string) []string {
	return tokenRE.FindAllString(strings.ToLower(text), -1)
}

// ngrams expands tokens into space-joined n-grams of length 1..ngramMax.
func ngrams(tokens []string) []string {
	out := make([]string, 0, len(tokens)*ngramMax)
	for n := 1; n <= ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// fitSparse learns the vocabulary and IDF weights from the corpus and
// vectorizes every row.
func fitSparse(texts []string) *SparseState {
	grams := make([][]string, len(texts))
	df := map[string]int{}
	total := map[string]int{}
	for i, text := range texts {
		grams[i] = ngrams(tokenize(text))
		seen := map[string]struct{}{}
		for _, g := range grams[i] {
			total[g]++
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			df[g]++
		}
	}

	// Document-frequency upper bound, no lower bound.
	n := len(texts)
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if float64(count)/float64(n) > maxDocFreq {
			continue
		}
		terms = append(terms, term)
	}

	// Vocabulary cap: keep the most frequent terms, corpus-wide count
	// descending, term ascending for a deterministic cut.
	if len(terms) > maxFeatures {
		sort.Slice(terms, func(a, b int) bool {
			if total[terms[a]] != total[terms[b]] {
				return total[terms[a]] > total[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	state := &SparseState{
		Vocab: make(map[string]int32, len(terms)),
		IDF:   make([]float64, len(terms)),
	}
	for i, term := range terms {
		state.Vocab[term] = int32(i)
		// Smoothed IDF.
		state.IDF[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1.0
	}

	state.Rows = make([]SparseVec, len(texts))
	for i := range texts {
		state.Rows[i] = state.vectorizeGrams(grams[i])
	}
	return state
}

// transform projects a query into the learned vector space.
func (s *SparseState) transform(query string) SparseVec {
	return s.vectorizeGrams(ngrams(tokenize(query)))
}

// vectorizeGrams applies sub-linear TF scaling, IDF weighting and L2
// normalization to a bag of n-grams. Terms outside the vocabulary drop out.
func (s *SparseState) vectorizeGrams(grams []string) SparseVec {
	counts := map[int32]float64{}
	for _, g := range grams {
		if col, ok := s.Vocab[g]; ok {
			counts[col]++
		}
	}

	idx := make([]int32, 0, len(counts))
	for col := range counts {
		idx = append(idx, col)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })

	val := make([]float64, len(idx))
	var norm float64
	for i, col := range idx {
		v := (1 + math.Log(counts[col])) * s.IDF[col]
		val[i] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range val {
			val[i] /= norm
		}
	}
	return SparseVec{Idx: idx, Val: val}
}

// score computes cosine similarity of the query against every row. Rows and
// query are L2-normalized, so this is a sparse dot product.
func (s *SparseState) score(query string) []float64 {
	qv := s.transform(query)
	q := make(map[int32]float64, len(qv.Idx))
	for i, col := range qv.Idx {
		q[col] = qv.Val[i]
	}

	scores := make([]float64, len(s.Rows))
	if len(q) == 0 {
		return scores
	}
	for r, row := range s.Rows {
		var dot float64
		for i, col := range row.Idx {
			if w, ok := q[col]; ok {
				dot += w * row.Val[i]
			}
		}
		scores[r] = dot
	}
	return scores
}
