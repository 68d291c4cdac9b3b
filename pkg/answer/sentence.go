package answer

import (
	"regexp"
	"strings"
)

var queryTermRE = regexp.MustCompile(`[A-Za-z0-9]+`)

// splitSentences breaks text at sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '?' || c == '!') && isSpace(text[i+1]) {
			out = append(out, text[start:i+1])
			// skip the whitespace run
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// bestSentence scores each sentence of the joined evidence by how many
// distinct query terms it contains and returns the highest-scoring one under
// the answer length cap. Earlier sentences win ties. Empty when no sentence
// matches any term.
func bestSentence(lowerQuery, joined string) string {
	terms := map[string]struct{}{}
	for _, t := range queryTermRE.FindAllString(lowerQuery, -1) {
		if len(t) > 2 {
			terms[t] = struct{}{}
		}
	}
	if len(terms) == 0 {
		return ""
	}

	var best string
	bestScore := 0
	for _, sent := range splitSentences(joined) {
		if len(sent) == 0 || len(sent) > maxAnswerChars {
			continue
		}
		lower := strings.ToLower(sent)
		score := 0
		for t := range terms {
			if strings.Contains(lower, t) {
				score++
			}
		}
		if score > bestScore {
			best = strings.TrimSpace(sent)
			bestScore = score
		}
	}
	return best
}
