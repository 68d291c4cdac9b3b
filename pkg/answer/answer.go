// Package answer synthesizes a verbatim, citation-backed answer from
// retrieved contract passages. Extraction is pattern-driven: an ordered rule
// table of legal-intent matchers is tried first, then a lexical best-sentence
// fallback, then the first line of the top hit. The package never invents
// text; paraphrasing is the generative collaborator's job.
package answer

import (
	"strings"

	"github.com/docketlab/clausehound/pkg/index"
)

const (
	// NotFoundAnswer is the canonical no-evidence sentinel.
	NotFoundAnswer = "NOT_FOUND"

	// maxAnswerChars caps extracted spans.
	maxAnswerChars = 700

	// fallbackCitations is how many leading hits are cited when no single
	// hit contains the matched span.
	fallbackCitations = 5
)

// Result is a synthesized answer plus its supporting segment ids, first
// supporting hit first, duplicates removed.
type Result struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
}

// NotFound returns the no-evidence sentinel result.
func NotFound() Result {
	return Result{Answer: NotFoundAnswer, Citations: []string{}}
}

// Extract produces a quoted answer for the query from the diversified hits.
// With no hits it returns the NOT_FOUND sentinel; otherwise it always
// returns a non-empty answer.
func Extract(query string, hits []index.Candidate) Result {
	if len(hits) == 0 {
		return NotFound()
	}

	q := strings.ToLower(query)
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	joined := strings.Join(texts, " ")

	// Governing law gets a per-hit pre-check: a short "laws of ..."
	// sentence found inside a single hit gives a single trustworthy
	// citation, which beats matching across concatenated hits.
	if anyTrigger(q, "govern", "law", "jurisd") {
		for _, h := range hits {
			if m := inlineLawRE.FindString(h.Text); m != "" {
				sent := strings.TrimSpace(m)
				if len(sent) > 30 {
					return Result{
						Answer:    quote(sent),
						Citations: []string{h.ID},
					}
				}
			}
		}
	}

	// First rule whose trigger is in the query and whose pattern matches
	// the joined evidence wins; rules are never combined.
	for _, r := range rules {
		if !anyTrigger(q, r.triggers...) {
			continue
		}
		m := r.pattern.FindString(joined)
		if m == "" {
			continue
		}
		if r.firstLineOnly {
			m = firstLine(m)
		}
		return packWithBestCitation(m, hits)
	}

	// Lexical fallback: the sentence covering the most distinct query terms.
	if best := bestSentence(q, joined); best != "" {
		return packWithBestCitation(best, hits)
	}

	// Last resort: the first line of the top hit, so the caller always
	// gets something grounded rather than an error.
	return packWithBestCitation(firstLine(hits[0].Text), hits)
}

// packWithBestCitation quotes the span and attributes it to the first hit
// whose text contains it verbatim, falling back to the leading hit ids for
// spans assembled across hit boundaries.
func packWithBestCitation(span string, hits []index.Candidate) Result {
	span = strings.TrimSpace(span)

	for _, h := range hits {
		if span != "" && strings.Contains(h.Text, span) {
			return Result{Answer: quote(span), Citations: []string{h.ID}}
		}
	}

	n := fallbackCitations
	if n > len(hits) {
		n = len(hits)
	}
	citations := make([]string, 0, n)
	for _, h := range hits[:n] {
		citations = append(citations, h.ID)
	}
	return Result{Answer: quote(span), Citations: citations}
}

// quote wraps a span in quotation marks, signalling verbatim extraction,
// and enforces the answer length cap.
func quote(span string) string {
	if len(span) > maxAnswerChars {
		span = span[:maxAnswerChars]
	}
	return `"` + span + `"`
}

func anyTrigger(q string, triggers ...string) bool {
	for _, t := range triggers {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
