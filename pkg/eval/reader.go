package eval

import (
	"regexp"
	"strings"
)

var answerTokenRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// normalizeAnswer lowers case, collapses whitespace and strips the
// quotation marks the extractive answerer wraps spans in.
func normalizeAnswer(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func answerTokens(s string) []string {
	return answerTokenRE.FindAllString(normalizeAnswer(s), -1)
}

// ExactMatch is 1 when the normalized prediction equals any normalized
// reference, else 0.
func ExactMatch(pred string, refs []string) float64 {
	p := normalizeAnswer(pred)
	for _, ref := range refs {
		if p == normalizeAnswer(ref) {
			return 1
		}
	}
	return 0
}

// TokenF1 is the token-multiset F1 against the best-matching reference.
func TokenF1(pred string, refs []string) float64 {
	predToks := answerTokens(pred)
	best := 0.0
	for _, ref := range refs {
		if f := tokenF1(predToks, answerTokens(ref)); f > best {
			best = f
		}
	}
	return best
}

func tokenF1(pred, ref []string) float64 {
	if len(pred) == 0 || len(ref) == 0 {
		if len(pred) == len(ref) {
			return 1
		}
		return 0
	}

	counts := map[string]int{}
	for _, t := range ref {
		counts[t]++
	}
	overlap := 0
	for _, t := range pred {
		if counts[t] > 0 {
			counts[t]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	precision := float64(overlap) / float64(len(pred))
	recall := float64(overlap) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}
