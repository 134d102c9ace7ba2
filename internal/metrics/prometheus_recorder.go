package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "yfile"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	directives    *prom.CounterVec
	splicedLines  prom.Counter
	splicedBytes  prom.Counter
	fetchDuration prom.Histogram
	runs          *prom.CounterVec
	runDuration   prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		directives: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Include directives expanded, by reference kind",
		}, []string{"kind"}),
		splicedLines: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "spliced_lines_total",
			Help:      "Lines of referenced content written to the output",
		}),
		splicedBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "spliced_bytes_total",
			Help:      "Bytes of referenced content written to the output",
		}),
		fetchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of remote reference fetches",
			Buckets:   prom.DefBuckets,
		}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Preprocessing runs by outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total preprocessing run duration",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.directives, pr.splicedLines, pr.splicedBytes, pr.fetchDuration, pr.runs, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) IncDirective(kind string) {
	if p == nil {
		return
	}
	p.directives.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) AddSplice(lines int, bytes int64) {
	if p == nil {
		return
	}
	p.splicedLines.Add(float64(lines))
	p.splicedBytes.Add(float64(bytes))
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.fetchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runs.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}
