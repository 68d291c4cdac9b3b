package eval

import (
	"fmt"
	"regexp"
)

// legacyMetrics are the binary signals of regex supervision: did any
// retrieved segment match, did the top-ranked one, did the answer text.
type legacyMetrics struct {
	Hit float64
	P1  float64
	EM  float64
}

func compileGoldRegex(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?is)" + expr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad gold_regex: %v", ErrBadBenchItem, err)
	}
	return re, nil
}

func computeLegacy(re *regexp.Regexp, hitIDs []string, textsByID map[string]string, answerText string) legacyMetrics {
	var m legacyMetrics
	for i, id := range hitIDs {
		text := textsByID[id]
		if text == "" || !re.MatchString(text) {
			continue
		}
		m.Hit = 1
		if i == 0 {
			m.P1 = 1
		}
	}
	if re.MatchString(answerText) {
		m.EM = 1
	}
	return m
}
