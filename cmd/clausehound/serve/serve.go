// Package servecmder provides the serve command for running the query API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/api"
	"github.com/docketlab/clausehound/api/mcp"
	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/embeddings"
	"github.com/docketlab/clausehound/pkg/embeddings/ollama"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/llm"
	"github.com/docketlab/clausehound/pkg/logger"
	"github.com/docketlab/clausehound/pkg/search"
)

type ServeCommander struct {
	listen  string
	idxPath string
	topK    int
	lambda  float64
	mode    string

	embeddingTarget string
	embeddingModel  string

	debug  bool
	logger *zap.Logger
}

// serveFlags is the registry of flags the serve command binds into viper.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagIndexPath: {
		Name:        "idx",
		ViperKey:    "index.path",
		Description: "Path to the index blob to serve",
	},
	config.FlagK: {
		Name:        "k",
		ViperKey:    "ask.k",
		Description: "Default number of hits per question",
	},
	config.FlagLambda: {
		Name:        "lambda",
		ViperKey:    "ask.lambda",
		Description: "Default relevance/diversity trade-off in [0,1]",
	},
	config.FlagMode: {
		Name:        "mode",
		ViperKey:    "ask.mode",
		Description: "Default answer mode (extractive, generative)",
	},
	config.FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding backend URL (dense indexes)",
	},
	config.FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name (dense indexes)",
	},
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagIndexPath,
	config.FlagK,
	config.FlagLambda,
	config.FlagMode,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
}

const serveLongDesc string = `Run the clausehound query API server.

Serves GET /v1/ask and GET /v1/index/meta over the index blob, plus the
MCP "ask" tool at /mcp. The blob is watched for changes: rebuilding the
index with "clausehound build" swaps the served index atomically without
a restart.

Flag values resolve through the standard precedence chain: CLI flags over
CLAUSEHOUND_* environment variables over config.toml over defaults.

Example:
  clausehound serve
  clausehound serve --listen :8081 --idx .cache/idx.bin
  CLAUSEHOUND_ASK_MODE=generative clausehound serve`

const serveShortDesc string = "Run the query API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)

			cmder.listen = v.GetString("api.listen")
			cmder.idxPath = v.GetString("index.path")
			cmder.topK = v.GetInt("ask.k")
			cmder.lambda = v.GetFloat64("ask.lambda")
			cmder.mode = v.GetString("ask.mode")
			cmder.embeddingTarget = v.GetString("embedding.target")
			cmder.embeddingModel = v.GetString("embedding.model")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagIndexPath, &cmder.idxPath)
	config.AddIntFlag(cmd, serveFlags, config.FlagK, &cmder.topK)
	config.AddFloat64Flag(cmd, serveFlags, config.FlagLambda, &cmder.lambda)
	config.AddStringFlag(cmd, serveFlags, config.FlagMode, &cmder.mode)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{
		BaseURL: c.embeddingTarget,
		Model:   c.embeddingModel,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	handle := index.NewHandle(c.loadIndex(embedder))

	var generative *llm.Client
	if search.Mode(c.mode) == search.ModeGenerative {
		generative, err = llm.NewClient(llm.ClientConfig{BaseURL: c.embeddingTarget})
		if err != nil {
			return fmt.Errorf("creating generative backend: %w", err)
		}
	}

	apiConfig := api.Config{
		ListenAddr:    c.listen,
		DefaultK:      c.topK,
		DefaultLambda: c.lambda,
		DefaultMode:   c.mode,
	}
	server := api.NewServer(apiConfig, handle, generativeOrNil(generative), c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Handle:        handle,
		DefaultK:      c.topK,
		DefaultLambda: c.lambda,
		Logger:        c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	server.MountMCP(mcpServer.Handler())

	watcher, err := api.NewWatcher(c.idxPath, handle, embedder, c.logger)
	if err != nil {
		return fmt.Errorf("creating index watcher: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.logger.Info("starting api server",
		zap.String("api_addr", c.listen),
		zap.String("idx", c.idxPath),
		zap.String("mode", c.mode),
	)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	go func() {
		if err := watcher.Run(watchCtx); err != nil {
			errChan <- fmt.Errorf("index watcher error: %w", err)
		}
	}()

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// loadIndex opens the blob if it exists. A missing blob is not fatal: the
// server starts empty and the watcher picks the index up once built.
func (c *ServeCommander) loadIndex(embedder embeddings.Embedder) *index.Index {
	idx, err := index.Load(c.idxPath)
	if err != nil {
		c.logger.Warn("no index loaded, waiting for build",
			zap.String("idx", c.idxPath),
			zap.Error(err),
		)
		return nil
	}
	if idx.Engine == index.EngineDense {
		idx.AttachEmbedder(embedder)
	}
	c.logger.Info("loaded index",
		zap.String("engine", string(idx.Engine)),
		zap.Int("segments", idx.Meta.Count),
	)
	return idx
}

// generativeOrNil keeps a nil *llm.Client from becoming a non-nil interface.
func generativeOrNil(c *llm.Client) answer.Generative {
	if c == nil {
		return nil
	}
	return c
}
