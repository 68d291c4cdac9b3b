// Package askcmder provides the ask command for querying an indexed contract.
package askcmder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/config"
	"github.com/docketlab/clausehound/pkg/embeddings/ollama"
	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/llm"
	"github.com/docketlab/clausehound/pkg/logger"
	"github.com/docketlab/clausehound/pkg/search"
	"github.com/docketlab/clausehound/pkg/utils"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	snippetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type askCommander struct {
	question string
	idxPath  string
	topK     int
	lambda   float64
	mode     string
	asJSON   bool

	remote    bool
	apiTarget string

	embeddingTarget string
	embeddingModel  string

	debug  bool
	logger *zap.Logger
}

const askLongDesc string = `Ask a question against an indexed contract.

Loads the index blob, retrieves and diversifies the most relevant segments,
and extracts a quoted answer with citation segment ids. With no question
argument the command starts an interactive loop reading questions from stdin.

With --remote the question is sent to a running clausehound API server
instead of loading the index locally.

Example:
  clausehound ask "What is the governing law?"
  clausehound ask "How can the contract be terminated?" --idx .cache/idx.bin -k 5
  clausehound ask "What are the payment terms?" --json
  clausehound ask "Who are the parties?" --remote --api-target http://localhost:8081
  clausehound ask`

const askShortDesc string = "Ask a question against an indexed contract"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MaximumNArgs(1),
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
			if !cmd.Flags().Changed("top") {
				cmder.topK = cfg.Ask.K
			}
			if !cmd.Flags().Changed("lambda") {
				cmder.lambda = cfg.Ask.Lambda
			}
			if !cmd.Flags().Changed("mode") {
				cmder.mode = cfg.Ask.Mode
			}
			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			if !cmd.Flags().Changed("embedding-target") {
				cmder.embeddingTarget = cfg.Embedding.Target
			}
			if !cmd.Flags().Changed("embedding-model") {
				cmder.embeddingModel = cfg.Embedding.Model
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cmder.question = args[0]
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.idxPath, "idx", defaults.Index.Path, "Path to the index blob")
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Ask.K, "Number of hits to retrieve")
	cmd.Flags().Float64Var(&cmder.lambda, "lambda", defaults.Ask.Lambda, "Relevance/diversity trade-off in [0,1]")
	cmd.Flags().StringVar(&cmder.mode, "mode", defaults.Ask.Mode, "Answer mode (extractive, generative)")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the full response as JSON")
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Query a running clausehound API server instead of a local index")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Clausehound API server URL")
	cmd.Flags().StringVar(&cmder.embeddingTarget, "embedding-target", defaults.Embedding.Target, "Embedding backend URL (dense indexes)")
	cmd.Flags().StringVar(&cmder.embeddingModel, "embedding-model", defaults.Embedding.Model, "Embedding model name (dense indexes)")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ask, err := c.asker(cmd)
	if err != nil {
		return err
	}

	if c.question != "" {
		return c.askOnce(ask, c.question)
	}

	// Interactive loop: one question per line, blank line or EOF to quit.
	fmt.Println(dimStyle.Render("Enter questions, one per line. Blank line to quit."))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(headerStyle.Render("? "))
		if !scanner.Scan() {
			break
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			break
		}
		if err := c.askOnce(ask, q); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// asker binds the local or remote question path once, so the interactive
// loop does not reload the index per question.
func (c *askCommander) asker(cmd *cobra.Command) (func(q string) (*search.Output, error), error) {
	if c.remote {
		return func(q string) (*search.Output, error) {
			return AskAPI(cmd.Context(), c.apiTarget, q, c.topK, c.lambda, c.mode)
		}, nil
	}

	loadStart := time.Now()
	idx, err := index.Load(c.idxPath)
	if err != nil {
		return nil, fmt.Errorf("loading index from %s (run \"clausehound build\" first): %w", c.idxPath, err)
	}
	loadMS := float64(time.Since(loadStart).Milliseconds())

	if idx.Engine == index.EngineDense {
		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: c.embeddingTarget,
			Model:   c.embeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		idx.AttachEmbedder(embedder)
	}

	opts := search.Options{
		K:           c.topK,
		Lambda:      c.lambda,
		Mode:        search.Mode(c.mode),
		LoadIndexMS: loadMS,
		Logger:      c.logger,
	}
	if opts.Mode == search.ModeGenerative {
		// The chat backend lives on the same Ollama server as the embedder.
		gen, err := llm.NewClient(llm.ClientConfig{BaseURL: c.embeddingTarget})
		if err != nil {
			return nil, fmt.Errorf("creating generative backend: %w", err)
		}
		opts.Generative = gen
	}
	return func(q string) (*search.Output, error) {
		return search.Ask(cmd.Context(), idx, q, opts)
	}, nil
}

func (c *askCommander) askOnce(ask func(q string) (*search.Output, error), q string) error {
	out, err := ask(q)
	if err != nil {
		return err
	}

	if c.asJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	c.printOutput(out)
	return nil
}

func (c *askCommander) printOutput(out *search.Output) {
	fmt.Printf("\n%s %s\n", headerStyle.Render("Answer:"), answerStyle.Render(out.Result.Answer))

	if len(out.Result.Citations) > 0 {
		fmt.Printf("%s %s\n",
			headerStyle.Render("Citations:"),
			citationStyle.Render(strings.Join(out.Result.Citations, ", ")),
		)
	}

	if len(out.Hits) > 0 {
		fmt.Printf("\n%s\n", headerStyle.Render("Evidence:"))
		snippets := make(map[string]string, len(out.Contexts))
		for _, ctx := range out.Contexts {
			snippets[ctx.ID] = ctx.Text
		}
		for _, hit := range out.Hits {
			snippet := utils.Truncate(strings.ReplaceAll(snippets[hit.ID], "\n", " "), 97)
			fmt.Printf("  %s %s %s\n",
				citationStyle.Render(hit.ID),
				scoreStyle.Render(fmt.Sprintf("%.4f", hit.Score)),
				snippetStyle.Render(snippet),
			)
		}
	}

	fmt.Printf("\n%s\n\n", dimStyle.Render(fmt.Sprintf(
		"retrieval %.1fms, mmr %.1fms, answer %.1fms, total %.1fms",
		out.TimingsMS.Retrieval, out.TimingsMS.MMR, out.TimingsMS.Answer, out.TimingsMS.Total,
	)))
}
