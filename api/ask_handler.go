package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/search"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAsk handles GET /v1/ask requests.
// Query parameters:
//   - q (required): the question text
//   - k (optional): number of hits to return
//   - lambda (optional): relevance/diversity trade-off in [0,1]
//   - mode (optional): "extractive" or "generative"
func (s *Server) handleAsk(c *fiber.Ctx) error {
	idx, _ := s.handle.Current()
	if idx == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "no index loaded",
		})
	}

	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "q parameter is required",
		})
	}

	k := s.config.DefaultK
	if kStr := c.Query("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "k must be a positive integer",
			})
		}
		k = parsed
	}

	lambda := s.config.DefaultLambda
	if lStr := c.Query("lambda"); lStr != "" {
		parsed, err := strconv.ParseFloat(lStr, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "lambda must be a number in [0,1]",
			})
		}
		lambda = parsed
	}

	mode := search.Mode(c.Query("mode", s.config.DefaultMode))
	switch mode {
	case search.ModeExtractive, search.ModeGenerative, "":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "mode must be extractive or generative",
		})
	}

	out, err := search.Ask(c.Context(), idx, q, search.Options{
		K:                 k,
		Lambda:            lambda,
		Mode:              mode,
		Generative:        s.generative,
		GenerativeTimeout: s.config.GenerativeTimeout,
		Logger:            s.logger,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, index.ErrBackendUnavailable) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(out)
}

// handleIndexMeta returns the active index metadata and handle version.
func (s *Server) handleIndexMeta(c *fiber.Ctx) error {
	idx, version := s.handle.Current()
	if idx == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "no index loaded",
		})
	}

	return c.JSON(fiber.Map{
		"meta":    idx.Meta,
		"version": version,
	})
}
