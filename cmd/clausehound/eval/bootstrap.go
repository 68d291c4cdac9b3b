package evalcmder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/eval"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/logger"
)

type bootstrapCommander struct {
	idxPath   string
	benchPath string
	outPath   string

	debug bool
}

const bootstrapLongDesc string = `Derive gold ids and weak answers for a legacy regex bench.

Converts a bench of gold_regex items into a gold-id bench: each regex is
matched against every segment text to collect gold_ids in corpus order,
falling back to the top retrieval hits when nothing matches, and the first
sentence of each matching segment becomes a weak gold answer. The converted
bench is written as JSON and can be scored with "clausehound eval".

Example:
  clausehound eval bootstrap --bench legacy.json --out bench.json`

const bootstrapShortDesc string = "Derive gold ids from a legacy regex bench"

func newBootstrapCmd() *cobra.Command {
	cmder := &bootstrapCommander{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: bootstrapShortDesc,
		Long:  bootstrapLongDesc,
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
	cmd.Flags().StringVarP(&cmder.benchPath, "bench", "b", "", "Path to the legacy regex bench JSON file")
	cmd.Flags().StringVar(&cmder.idxPath, "idx", defaults.Index.Path, "Path to the index blob")
	cmd.Flags().StringVarP(&cmder.outPath, "out", "o", "bench_bootstrap.json", "Output path for the converted bench")
	_ = cmd.MarkFlagRequired("bench")

	return cmd
}

func (c *bootstrapCommander) run(cmd *cobra.Command) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	idx, err := index.Load(c.idxPath)
	if err != nil {
		return fmt.Errorf("loading index from %s: %w", c.idxPath, err)
	}

	items, err := eval.LoadBench(c.benchPath)
	if err != nil {
		return fmt.Errorf("loading bench: %w", err)
	}

	converted, err := eval.Bootstrap(cmd.Context(), idx, items)
	if err != nil {
		return fmt.Errorf("bootstrapping bench: %w", err)
	}

	data, err := json.MarshalIndent(converted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bench: %w", err)
	}
	if err := os.WriteFile(c.outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing bench: %w", err)
	}

	fmt.Printf("wrote %d items to %s\n", len(converted), c.outPath)
	return nil
}
