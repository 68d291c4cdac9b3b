package eval

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/docketlab/clausehound/pkg/index"
)

const (
	bootstrapMaxGoldIDs  = 10
	bootstrapMaxAnswers  = 3
	bootstrapSnippetSize = 200
)

var firstSentenceRE = regexp.MustCompile(`[^.?!؟]*[.?!؟]`)

// Bootstrap upgrades regex-supervised items to gold_ids supervision so the
// full ranking metrics apply. Gold ids are the segments whose text matches
// the item's regex, in corpus order; when none match, the top retrieval
// results for the question stand in. Weak gold answers are the first
// sentence of each leading gold segment.
func Bootstrap(ctx context.Context, idx *index.Index, items []BenchItem) ([]BenchItem, error) {
	out := make([]BenchItem, 0, len(items))

	for _, it := range items {
		boot := BenchItem{Q: it.Q, K: it.K}
		if boot.K <= 0 {
			boot.K = DefaultK
		}

		var goldIDs []string
		var goldAnswers []string

		if it.GoldRegex != "" {
			re, err := compileGoldRegex(it.GoldRegex)
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", it.Q, err)
			}
			for i, id := range idx.IDs {
				if idx.Texts[i] != "" && re.MatchString(idx.Texts[i]) {
					goldIDs = append(goldIDs, id)
				}
			}
			if len(goldIDs) == 0 {
				goldIDs, err = topIDs(ctx, idx, it.Q, bootstrapMaxGoldIDs)
				if err != nil {
					return nil, fmt.Errorf("item %q: %w", it.Q, err)
				}
			}
			textsByID := make(map[string]string, len(idx.IDs))
			for i, id := range idx.IDs {
				textsByID[id] = idx.Texts[i]
			}
			for _, id := range goldIDs {
				if len(goldAnswers) >= bootstrapMaxAnswers {
					break
				}
				goldAnswers = append(goldAnswers, weakAnswer(textsByID[id]))
			}
		} else {
			goldIDs = it.GoldIDs
			if len(goldIDs) == 0 {
				var err error
				goldIDs, err = topIDs(ctx, idx, it.Q, bootstrapMaxGoldIDs)
				if err != nil {
					return nil, fmt.Errorf("item %q: %w", it.Q, err)
				}
			}
			goldAnswers = it.GoldAnswers
			if len(goldAnswers) > bootstrapMaxAnswers {
				goldAnswers = goldAnswers[:bootstrapMaxAnswers]
			}
		}

		if len(goldIDs) > bootstrapMaxGoldIDs {
			goldIDs = goldIDs[:bootstrapMaxGoldIDs]
		}
		boot.GoldIDs = goldIDs
		boot.GoldAnswers = goldAnswers
		out = append(out, boot)
	}
	return out, nil
}

func topIDs(ctx context.Context, idx *index.Index, query string, limit int) ([]string, error) {
	cands, err := idx.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// weakAnswer takes the first sentence of a segment, or a leading snippet
// when the text has no sentence-ending punctuation.
func weakAnswer(text string) string {
	if m := firstSentenceRE.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if len(text) > bootstrapSnippetSize {
		text = text[:bootstrapSnippetSize]
	}
	return strings.TrimSpace(text)
}
