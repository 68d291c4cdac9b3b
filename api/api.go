package api

import (
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/index"
)

// ErrorResponse is the structured error payload returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the API server answering questions against the active index.
type Server struct {
	config     Config
	handle     *index.Handle
	generative answer.Generative
	logger     *zap.Logger
	app        *fiber.App
}

// NewServer creates a new API server. The index handle is injected so a
// watcher (or a rebuild) can swap the active index underneath running
// requests; generative may be nil when only extractive mode is served.
func NewServer(config Config, handle *index.Handle, generative answer.Generative, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:     config,
		handle:     handle,
		generative: generative,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/ask", s.handleAsk)
	app.Get("/v1/index/meta", s.handleIndexMeta)

	return s
}

// MountMCP exposes an MCP streamable HTTP handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.app.All("/mcp", adaptor.HTTPHandler(h))
	s.app.All("/mcp/*", adaptor.HTTPHandler(h))
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
