package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one line per row. The legacy p1(regex) column is emitted
// only when at least one row carries it, keeping gold_ids-mode files on the
// base column set.
func WriteCSV(w io.Writer, rows []Row) error {
	legacy := false
	for _, r := range rows {
		if r.P1 != nil {
			legacy = true
			break
		}
	}

	header := []string{"q", "status", "latency_ms", "hit@k", "recall@k", "mrr@k", "ndcg@k", "map@k", "em", "f1"}
	if legacy {
		header = append(header, "p1(regex)")
	}
	header = append(header, "err")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range rows {
		latency := ""
		if r.Status == StatusOK {
			latency = strconv.FormatFloat(r.LatencyMS, 'f', 2, 64)
		}
		rec := []string{
			r.Q, r.Status, latency,
			cell(r.Hit), cell(r.Recall), cell(r.MRR), cell(r.NDCG), cell(r.MAP),
			cell(r.EM), cell(r.F1),
		}
		if legacy {
			rec = append(rec, cell(r.P1))
		}
		rec = append(rec, r.Err)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
