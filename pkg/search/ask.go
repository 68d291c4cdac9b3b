package search

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/index"
)

// Mode selects how the answer is synthesized from the hit list.
type Mode string

const (
	ModeExtractive Mode = "extractive"
	ModeGenerative Mode = "generative"
)

// DefaultK is the hit-list size used when the caller does not supply one.
const DefaultK = 8

// Options tune one Ask call. Zero values fall back to the defaults above.
type Options struct {
	K      int
	Lambda float64
	Mode   Mode

	// Generative is the external collaborator used when Mode is
	// ModeGenerative. Missing backend fails closed to the sentinel.
	Generative        answer.Generative
	GenerativeTimeout time.Duration

	// LoadIndexMS lets the caller account for index load time in the
	// reported timings when the index was opened for this call.
	LoadIndexMS float64

	Logger *zap.Logger
}

// Hit is one ranked result id with its retrieval score.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Context is one evidence snippet handed to answer synthesis.
type Context struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Timings reports per-stage wall time in milliseconds.
type Timings struct {
	LoadIdx   float64 `json:"load_idx"`
	Retrieval float64 `json:"retrieval"`
	MMR       float64 `json:"mmr"`
	Answer    float64 `json:"answer"`
	Total     float64 `json:"total"`
}

// Output is the full response for one question.
type Output struct {
	Query     string        `json:"query"`
	Hits      []Hit         `json:"hits"`
	Contexts  []Context     `json:"contexts"`
	Result    answer.Result `json:"result"`
	TimingsMS Timings       `json:"timings_ms"`
	Meta      index.Meta    `json:"meta"`
}

// Ask runs the full question pipeline against an index: rewrite and
// retrieve a candidate pool, diversify it down to k hits, then synthesize
// an answer in the requested mode. The index is only read, so concurrent
// Ask calls over the same index are safe.
func Ask(ctx context.Context, idx *index.Index, question string, opts Options) (*Output, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}
	lambda := opts.Lambda
	if lambda <= 0 || lambda > 1 {
		lambda = DefaultLambda
	}

	start := time.Now()

	t := time.Now()
	pool, err := Retrieve(ctx, idx, question, k)
	retrievalMS := millis(time.Since(t))
	if err != nil {
		return nil, err
	}

	t = time.Now()
	hits := Diversify(pool, k, lambda)
	mmrMS := millis(time.Since(t))

	t = time.Now()
	var res answer.Result
	if opts.Mode == ModeGenerative {
		res = answer.Generate(ctx, opts.Generative, question, hits, opts.GenerativeTimeout, logger)
	} else {
		res = answer.Extract(question, hits)
	}
	answerMS := millis(time.Since(t))

	out := &Output{
		Query:    question,
		Hits:     make([]Hit, 0, len(hits)),
		Contexts: make([]Context, 0, len(hits)),
		Result:   res,
		Meta:     idx.Meta,
	}
	for _, h := range hits {
		out.Hits = append(out.Hits, Hit{ID: h.ID, Score: h.Score})
	}
	for i, h := range hits {
		if i >= k {
			break
		}
		out.Contexts = append(out.Contexts, Context{ID: h.ID, Text: h.Text})
	}
	out.TimingsMS = Timings{
		LoadIdx:   opts.LoadIndexMS,
		Retrieval: retrievalMS,
		MMR:       mmrMS,
		Answer:    answerMS,
		Total:     opts.LoadIndexMS + millis(time.Since(start)),
	}

	logger.Debug("ask complete",
		zap.String("mode", string(opts.Mode)),
		zap.Int("pool", len(pool)),
		zap.Int("hits", len(hits)),
		zap.Float64("total_ms", out.TimingsMS.Total))
	return out, nil
}

func millis(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e4) / 100
}
