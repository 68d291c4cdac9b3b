// Package mcp provides an MCP (Model Context Protocol) server exposing the
// contract question pipeline as a tool.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/utils"
)

type Config struct {
	// Handle is the active index shared with the API server.
	Handle *index.Handle

	// DefaultK is the hit-list size when the tool call does not set one.
	DefaultK int

	// DefaultLambda is the diversifier trade-off when the tool call does
	// not set one.
	DefaultLambda float64

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the ask tool.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "clausehound",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Handle == nil {
		return nil, errors.New("index handle is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
