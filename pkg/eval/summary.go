package eval

import (
	"encoding/json"
	"math"
	"sort"
)

// Metric keys shared by per-row cells, per-dataset aggregates and the suite
// macro average.
const (
	MetricHit    = "hit@k"
	MetricRecall = "recall@k"
	MetricMRR    = "mrr@k"
	MetricNDCG   = "ndcg@k"
	MetricMAP    = "map@k"
	MetricEM     = "em"
	MetricF1     = "f1"
	MetricP1     = "p1(regex)"
)

// DatasetSummary aggregates one dataset's rows: means over OK rows only,
// keyed by metric name.
type DatasetSummary struct {
	Name         string
	Queries      int
	OK           int
	AvgLatencyMS float64
	Metrics      map[string]float64
}

// Summarize computes per-dataset means. A metric appears only when at least
// one OK row carried it; boolean metrics come out as proportions.
func Summarize(name string, rows []Row) DatasetSummary {
	s := DatasetSummary{Name: name, Queries: len(rows), Metrics: map[string]float64{}}

	sums := map[string]float64{}
	counts := map[string]int{}
	var latencySum float64

	add := func(key string, v *float64) {
		if v != nil {
			sums[key] += *v
			counts[key]++
		}
	}

	for _, r := range rows {
		if r.Status != StatusOK {
			continue
		}
		s.OK++
		latencySum += r.LatencyMS
		add(MetricHit, r.Hit)
		add(MetricRecall, r.Recall)
		add(MetricMRR, r.MRR)
		add(MetricNDCG, r.NDCG)
		add(MetricMAP, r.MAP)
		add(MetricEM, r.EM)
		add(MetricF1, r.F1)
		add(MetricP1, r.P1)
	}

	if s.OK > 0 {
		s.AvgLatencyMS = round2(latencySum / float64(s.OK))
	}
	for key, sum := range sums {
		s.Metrics[key] = round4(sum / float64(counts[key]))
	}
	return s
}

// MarshalJSON flattens the metric map next to the fixed fields so the
// summary reads as one object per dataset.
func (s DatasetSummary) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name":           s.Name,
		"queries":        s.Queries,
		"ok":             s.OK,
		"avg_latency_ms": s.AvgLatencyMS,
	}
	for k, v := range s.Metrics {
		out[k] = v
	}
	return json.Marshal(out)
}

// MacroAvg is the suite-level aggregate: the unweighted mean of per-dataset
// aggregates, so small datasets count the same as large ones.
type MacroAvg struct {
	Datasets     int
	QueriesTotal int
	Metrics      map[string]float64
}

func (m MacroAvg) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"datasets":      m.Datasets,
		"queries_total": m.QueriesTotal,
	}
	for k, v := range m.Metrics {
		out[k] = v
	}
	return json.Marshal(out)
}

// MacroAverage combines dataset summaries. Each metric is averaged over the
// datasets that report it, never pooled over queries.
func MacroAverage(summaries []DatasetSummary) MacroAvg {
	m := MacroAvg{Datasets: len(summaries), Metrics: map[string]float64{}}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range summaries {
		m.QueriesTotal += s.Queries
		for key, v := range s.Metrics {
			sums[key] += v
			counts[key]++
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Metrics[k] = round4(sums[k] / float64(counts[k]))
	}
	return m
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
