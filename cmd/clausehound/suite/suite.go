// Package suitecmder provides the suite command for multi-dataset evaluation.
package suitecmder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/eval"
	"github.com/docketlab/clausehound/pkg/logger"
)

type suiteCommander struct {
	suitePath string
	outDir    string
	lambda    float64
	workers   int

	debug  bool
	logger *zap.Logger
}

const suiteLongDesc string = `Evaluate every dataset in a suite manifest.

The manifest is a JSON array of datasets, each naming an index blob and a
bench file:

  [{"name": "nda", "idx": "nda.idx", "bench": "nda_bench.json"}, ...]

Each dataset is scored independently; per-question rows go to one CSV per
dataset in the output directory, and the per-dataset summaries plus the
unweighted macro average print to stdout as JSON.

Example:
  clausehound suite --suite suite.json
  clausehound suite --suite suite.json --out-dir results/`

const suiteShortDesc string = "Evaluate every dataset in a suite manifest"

func NewSuiteCmd() *cobra.Command {
	cmder := &suiteCommander{}

	cmd := &cobra.Command{
		Use:   "suite",
		Short: suiteShortDesc,
		Long:  suiteLongDesc,
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
	cmd.Flags().StringVarP(&cmder.suitePath, "suite", "s", "", "Path to the suite manifest JSON file")
	cmd.Flags().StringVarP(&cmder.outDir, "out-dir", "o", ".", "Directory for per-dataset CSV files")
	cmd.Flags().Float64Var(&cmder.lambda, "lambda", defaults.Ask.Lambda, "Relevance/diversity trade-off in [0,1]")
	cmd.Flags().IntVarP(&cmder.workers, "workers", "w", defaults.Eval.Workers, "Number of concurrent eval workers")
	_ = cmd.MarkFlagRequired("suite")

	return cmd
}

func (c *suiteCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	suite, err := eval.LoadSuite(c.suitePath)
	if err != nil {
		return fmt.Errorf("loading suite: %w", err)
	}

	results, summary, err := eval.RunSuite(cmd.Context(), suite, eval.Options{
		Lambda:  c.lambda,
		Workers: c.workers,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("running suite: %w", err)
	}

	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, result := range results {
		path := filepath.Join(c.outDir, result.Ref.Name+"_results.csv")
		if err := c.writeCSV(path, result.Rows); err != nil {
			return err
		}
		c.logger.Info("wrote dataset rows",
			zap.String("dataset", result.Ref.Name),
			zap.String("path", path),
			zap.Int("rows", len(result.Rows)),
		)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling suite summary: %w", err)
	}
	fmt.Println(string(out))

	return nil
}

func (c *suiteCommander) writeCSV(path string, rows []eval.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()
	if err := eval.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
