package eval

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/search"
)

// Row statuses.
const (
	StatusOK  = "OK"
	StatusErr = "ERR"
)

const defaultWorkers = 4

// Row is the outcome of one benchmark query. Metric pointers are nil when
// the supervision mode does not produce that metric.
type Row struct {
	Q         string
	Status    string
	LatencyMS float64

	Hit    *float64
	Recall *float64
	MRR    *float64
	NDCG   *float64
	MAP    *float64

	// P1 is only set in legacy regex mode.
	P1 *float64

	EM *float64
	F1 *float64

	Err string
}

// Options tune a benchmark run.
type Options struct {
	// Lambda is the diversifier trade-off passed through to each query.
	Lambda float64

	// Workers is the number of concurrent query workers. Items are
	// independent; only the read-only index is shared.
	Workers int

	Logger *zap.Logger
}

// Run evaluates every item against the index and returns one row per item
// in input order. Item failures become ERR rows; the batch never aborts.
func Run(ctx context.Context, idx *index.Index, items []BenchItem, opts Options) []Row {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("bench run starting",
		zap.Int("queries", len(items)),
		zap.Int("workers", workers),
	)

	var textsByID map[string]string
	for _, it := range items {
		if it.Legacy() {
			textsByID = make(map[string]string, len(idx.IDs))
			for i, id := range idx.IDs {
				textsByID[id] = idx.Texts[i]
			}
			break
		}
	}

	rows := make([]Row, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = evalItem(ctx, idx, items[i], textsByID, opts, logger)
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range rows {
		if r.Status != StatusOK {
			failed++
		}
	}
	logger.Info("bench run finished",
		zap.Int("ok", len(rows)-failed),
		zap.Int("failed", failed),
	)
	return rows
}

func evalItem(ctx context.Context, idx *index.Index, it BenchItem, textsByID map[string]string, opts Options, logger *zap.Logger) Row {
	row := Row{Q: it.Q, Status: StatusOK}

	if err := it.Validate(); err != nil {
		return errRow(it.Q, err.Error())
	}

	out, err := search.Ask(ctx, idx, it.Q, search.Options{
		K:      it.K,
		Lambda: opts.Lambda,
		Mode:   search.ModeExtractive,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("query failed", zap.String("q", it.Q), zap.Error(err))
		return errRow(it.Q, err.Error())
	}

	row.LatencyMS = out.TimingsMS.Total
	hitIDs := make([]string, 0, len(out.Hits))
	for _, h := range out.Hits {
		hitIDs = append(hitIDs, h.ID)
	}

	if it.Legacy() {
		re, err := compileGoldRegex(it.GoldRegex)
		if err != nil {
			return errRow(it.Q, err.Error())
		}
		m := computeLegacy(re, hitIDs, textsByID, out.Result.Answer)
		row.Hit = fptr(m.Hit)
		row.P1 = fptr(m.P1)
		row.EM = fptr(m.EM)
		return row
	}

	rm := ComputeRanking(hitIDs, it.GoldIDs, it.K)
	row.Hit = fptr(rm.Hit)
	row.Recall = fptr(rm.Recall)
	row.MRR = fptr(rm.MRR)
	row.NDCG = fptr(rm.NDCG)
	row.MAP = fptr(rm.MAP)
	if len(it.GoldAnswers) > 0 {
		row.EM = fptr(ExactMatch(out.Result.Answer, it.GoldAnswers))
		row.F1 = fptr(TokenF1(out.Result.Answer, it.GoldAnswers))
	}
	return row
}

func errRow(q, msg string) Row {
	return Row{Q: q, Status: StatusErr, Err: msg}
}

func fptr(v float64) *float64 { return &v }
