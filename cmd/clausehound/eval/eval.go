// Package evalcmder provides the eval command for scoring retrieval and
// answer quality against a bench file.
package evalcmder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/eval"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/logger"
)

type evalCommander struct {
	idxPath   string
	benchPath string
	outCSV    string
	lambda    float64
	workers   int

	debug  bool
	logger *zap.Logger
}

const evalLongDesc string = `Score retrieval and answer quality against a bench file.

Runs every bench question through the ask pipeline and reports ranking
metrics (hit@k, recall@k, mrr@k, ndcg@k, map@k) against gold segment ids
plus reader metrics (em, f1) against gold answers. Bench items carrying a
gold_regex instead are scored in legacy mode (hit@k, p1, em via regex).

Per-question rows go to the CSV file; the aggregate summary over
successful rows prints to stdout as JSON.

Example:
  clausehound eval --bench bench.json
  clausehound eval --bench bench.json --idx .cache/idx.bin --out-csv results.csv
  clausehound eval --bench bench.json --workers 8`

const evalShortDesc string = "Score retrieval and answer quality"

func NewEvalCmd() *cobra.Command {
	cmder := &evalCommander{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: evalShortDesc,
		Long:  evalLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("idx") {
				cmder.idxPath = cfg.Index.Path
			}
			if !cmd.Flags().Changed("lambda") {
				cmder.lambda = cfg.Ask.Lambda
			}
			if !cmd.Flags().Changed("workers") {
				cmder.workers = cfg.Eval.Workers
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.benchPath, "bench", "b", "", "Path to the bench JSON file")
	cmd.Flags().StringVar(&cmder.idxPath, "idx", defaults.Index.Path, "Path to the index blob")
	cmd.Flags().StringVarP(&cmder.outCSV, "out-csv", "o", "eval_results.csv", "Output path for per-question CSV rows")
	cmd.Flags().Float64Var(&cmder.lambda, "lambda", defaults.Ask.Lambda, "Relevance/diversity trade-off in [0,1]")
	cmd.Flags().IntVarP(&cmder.workers, "workers", "w", defaults.Eval.Workers, "Number of concurrent eval workers")
	_ = cmd.MarkFlagRequired("bench")

	cmd.AddCommand(newBootstrapCmd())

	return cmd
}

func (c *evalCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	idx, err := index.Load(c.idxPath)
	if err != nil {
		return fmt.Errorf("loading index from %s: %w", c.idxPath, err)
	}

	items, err := eval.LoadBench(c.benchPath)
	if err != nil {
		return fmt.Errorf("loading bench: %w", err)
	}

	rows := eval.Run(cmd.Context(), idx, items, eval.Options{
		Lambda:  c.lambda,
		Workers: c.workers,
		Logger:  c.logger,
	})

	f, err := os.Create(c.outCSV)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()
	if err := eval.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	c.logger.Info("wrote per-question rows",
		zap.String("path", c.outCSV),
		zap.Int("rows", len(rows)),
	)

	summary := eval.Summarize(c.benchPath, rows)
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
