package answer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
)

// Generative is the external LLM collaborator contract. Implementations
// receive the same diversified hits the extractive path sees and must return
// the same answer/citations shape, grounding the answer strictly in the
// provided evidence.
type Generative interface {
	Answer(ctx context.Context, query string, hits []index.Candidate) (Result, error)
}

// DefaultGenerativeTimeout bounds one generative call when the caller does
// not supply its own.
const DefaultGenerativeTimeout = 12 * time.Second

// Generate runs the collaborator under a timeout and fails closed: any
// error, timeout or missing backend yields the NOT_FOUND sentinel rather
// than blocking or propagating. "No answer" is a normal outcome here.
func Generate(ctx context.Context, g Generative, query string, hits []index.Candidate, timeout time.Duration, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	if g == nil {
		logger.Debug("no generative backend configured, returning sentinel")
		return NotFound()
	}
	if len(hits) == 0 {
		return NotFound()
	}

	if timeout <= 0 {
		timeout = DefaultGenerativeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := g.Answer(ctx, query, hits)
	if err != nil {
		logger.Warn("generative answer failed, returning sentinel", zap.Error(err))
		return NotFound()
	}
	if res.Answer == "" {
		return NotFound()
	}
	if res.Citations == nil {
		res.Citations = []string{}
	}
	return res
}
