// Package buildcmder provides the build command for indexing a parsed contract.
package buildcmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/cliui"
	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/embeddings/ollama"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/logger"
	"github.com/docketlab/clausehound/pkg/segment"
)

type buildCommander struct {
	parsedPath string
	idxPath    string
	engine     string

	fallbackSparse  bool
	embeddingTarget string
	embeddingModel  string

	debug  bool
	logger *zap.Logger
}

const buildLongDesc string = `Build a retrieval index from a parsed contract.

Reads a parsed-document JSON file (an array of {id, text} segments as
produced by the ingestion step), builds the selected index representation,
and writes the index blob to disk.

The sparse engine needs no external services. The dense engine embeds every
segment through the configured embedding backend; if the backend is
unreachable and --fallback-sparse is set, the build falls back to the
sparse engine instead of failing.

On success the command prints a JSON status line with the index metadata.

Example:
  clausehound build --parsed contract.json
  clausehound build --parsed contract.json --idx .cache/idx.bin --engine dense
  clausehound build --parsed contract.json --engine dense --fallback-sparse=false`

const buildShortDesc string = "Build a retrieval index from a parsed contract"

func NewBuildCmd() *cobra.Command {
	cmder := &buildCommander{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: buildShortDesc,
		Long:  buildLongDesc,
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
			if !cmd.Flags().Changed("engine") {
				cmder.engine = cfg.Index.Engine
			}
			if !cmd.Flags().Changed("fallback-sparse") {
				cmder.fallbackSparse = cfg.Index.FallbackSparse
			}
			if !cmd.Flags().Changed("embedding-target") {
				cmder.embeddingTarget = cfg.Embedding.Target
			}
			if !cmd.Flags().Changed("embedding-model") {
				cmder.embeddingModel = cfg.Embedding.Model
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
	cmd.Flags().StringVarP(&cmder.parsedPath, "parsed", "p", "", "Path to the parsed contract JSON file")
	cmd.Flags().StringVar(&cmder.idxPath, "idx", defaults.Index.Path, "Output path for the index blob")
	cmd.Flags().StringVarP(&cmder.engine, "engine", "e", defaults.Index.Engine, "Index engine (sparse, dense)")
	cmd.Flags().BoolVar(&cmder.fallbackSparse, "fallback-sparse", defaults.Index.FallbackSparse, "Fall back to the sparse engine when the embedding backend is unreachable")
	cmd.Flags().StringVar(&cmder.embeddingTarget, "embedding-target", defaults.Embedding.Target, "Embedding backend URL")
	cmd.Flags().StringVar(&cmder.embeddingModel, "embedding-model", defaults.Embedding.Model, "Embedding model name")
	_ = cmd.MarkFlagRequired("parsed")

	return cmd
}

func (c *buildCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	engine, err := index.ParseEngine(c.engine)
	if err != nil {
		return err
	}

	doc, err := segment.LoadFile(c.parsedPath)
	if err != nil {
		return fmt.Errorf("loading parsed contract: %w", err)
	}

	c.logger.Info("building index",
		zap.String("parsed", c.parsedPath),
		zap.String("engine", c.engine),
		zap.Int("segments", len(doc.Segments)),
	)

	opts := index.Options{Engine: engine, Logger: c.logger}
	if engine == index.EngineDense {
		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: c.embeddingTarget,
			Model:   c.embeddingModel,
		})
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		opts.Embedder = embedder
	}

	var idx *index.Index
	err = cliui.Step(os.Stderr, fmt.Sprintf("Building %s index", engine), func() error {
		var buildErr error
		idx, buildErr = index.Build(cmd.Context(), doc.Segments, opts)
		if errors.Is(buildErr, index.ErrBackendUnavailable) && c.fallbackSparse {
			c.logger.Warn("embedding backend unavailable, falling back to sparse engine")
			idx, buildErr = index.Build(cmd.Context(), doc.Segments, index.Options{
				Engine: index.EngineSparse,
				Logger: c.logger,
			})
		}
		return buildErr
	})
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if err := idx.Save(c.idxPath); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	status := map[string]any{
		"status": "ok",
		"meta":   idx.Meta,
	}
	out, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
