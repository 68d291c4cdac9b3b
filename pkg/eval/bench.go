// Package eval runs retrieval and answering against labeled benchmark files
// and computes ranking and reader-quality metrics, for a single dataset or
// a multi-dataset suite.
package eval

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrBadBenchItem marks a benchmark item missing a required field. It is
// fatal for that item only; the runner records an ERR row and the batch
// continues.
var ErrBadBenchItem = errors.New("invalid bench item")

// DefaultK is the per-item hit-list size when the file does not set one.
const DefaultK = 8

// BenchItem is one labeled query. Supervision comes from either gold_ids
// (ranking and optional reader metrics) or gold_regex (legacy binary
// signals); gold_ids wins when both are present.
type BenchItem struct {
	Q           string   `json:"q"`
	K           int      `json:"k,omitempty"`
	GoldIDs     []string `json:"gold_ids,omitempty"`
	GoldAnswers []string `json:"gold_answers,omitempty"`
	GoldRegex   string   `json:"gold_regex,omitempty"`
}

// Validate reports whether the item carries a query and a supervision
// source.
func (b BenchItem) Validate() error {
	if strings.TrimSpace(b.Q) == "" {
		return fmt.Errorf("%w: missing q", ErrBadBenchItem)
	}
	if len(b.GoldIDs) == 0 && b.GoldRegex == "" {
		return fmt.Errorf("%w: %q has neither gold_ids nor gold_regex", ErrBadBenchItem, b.Q)
	}
	return nil
}

// Legacy reports whether the item uses regex supervision.
func (b BenchItem) Legacy() bool {
	return len(b.GoldIDs) == 0 && b.GoldRegex != ""
}

// LoadBench reads a benchmark file (JSON array of items) and applies the
// per-item k default. Item validation is deferred to the runner so one bad
// item cannot sink the file.
func LoadBench(path string) ([]BenchItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bench file: %w", err)
	}

	var items []BenchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing bench file %s: %w", path, err)
	}

	for i := range items {
		if items[i].K <= 0 {
			items[i].K = DefaultK
		}
	}
	return items, nil
}
