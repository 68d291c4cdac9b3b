package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
)

// DatasetRef names one dataset of a suite: a prebuilt index blob plus its
// benchmark file.
type DatasetRef struct {
	Name  string `json:"name"`
	Idx   string `json:"idx"`
	Bench string `json:"bench"`
}

// Suite is a multi-dataset evaluation manifest.
type Suite struct {
	Datasets []DatasetRef `json:"datasets"`
}

// LoadSuite reads a suite manifest.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}
	var s Suite
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing suite file %s: %w", path, err)
	}
	if len(s.Datasets) == 0 {
		return nil, fmt.Errorf("suite file %s lists no datasets", path)
	}
	return &s, nil
}

// DatasetResult pairs one dataset's rows with its aggregate.
type DatasetResult struct {
	Ref     DatasetRef
	Rows    []Row
	Summary DatasetSummary
}

// SuiteSummary is the cross-dataset report.
type SuiteSummary struct {
	PerDataset []DatasetSummary `json:"per_dataset"`
	MacroAvg   MacroAvg         `json:"macro_avg"`
}

// RunSuite evaluates every dataset in order. A dataset whose index or bench
// file cannot be loaded is an operator error and aborts the suite; query
// failures inside a dataset degrade to ERR rows as usual.
func RunSuite(ctx context.Context, suite *Suite, opts Options) ([]DatasetResult, *SuiteSummary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]DatasetResult, 0, len(suite.Datasets))
	summaries := make([]DatasetSummary, 0, len(suite.Datasets))

	for _, ref := range suite.Datasets {
		idx, err := index.Load(ref.Idx)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", ref.Name, err)
		}
		items, err := LoadBench(ref.Bench)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", ref.Name, err)
		}

		logger.Info("evaluating dataset",
			zap.String("dataset", ref.Name),
			zap.Int("queries", len(items)),
		)

		rows := Run(ctx, idx, items, opts)
		summary := Summarize(ref.Name, rows)
		results = append(results, DatasetResult{Ref: ref, Rows: rows, Summary: summary})
		summaries = append(summaries, summary)
	}

	return results, &SuiteSummary{
		PerDataset: summaries,
		MacroAvg:   MacroAverage(summaries),
	}, nil
}
