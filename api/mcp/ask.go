package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/search"
)

var (
	askToolName    = "ask"
	askDescription = "Answer a question about the indexed contract. Returns a quoted extractive answer with citation segment ids, the ranked hit list, and the evidence snippets it was drawn from."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed contract"`
	K        int    `json:"k,omitempty" jsonschema:"number of hits to retrieve (default: 8)"`
}

// handleAsk processes an ask request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, *search.Output, error) {
	logger := s.config.Logger

	k := input.K
	if k <= 0 {
		k = s.config.DefaultK
	}

	logger.Debug("MCP ask request",
		zap.String("question", input.Question),
		zap.Int("k", k),
	)

	idx, _ := s.config.Handle.Current()
	if idx == nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "No index loaded"},
			},
		}, nil, nil
	}

	out, err := search.Ask(ctx, idx, input.Question, search.Options{
		K:      k,
		Lambda: s.config.DefaultLambda,
		Mode:   search.ModeExtractive,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to answer question", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer question: %v", err)},
			},
		}, nil, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		logger.Error("failed to marshal ask output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize result: %v", err)},
			},
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, out, nil
}
