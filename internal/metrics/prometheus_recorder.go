package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	runDuration   *prom.HistogramVec
	runOutcomes   *prom.CounterVec
	fixersApplied *prom.CounterVec
	fixersFailed  *prom.CounterVec
	filesChanged  prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "debtidy",
			Name:      "run_duration_seconds",
			Help:      "Duration of fixer runs",
			Buckets:   prom.DefBuckets,
		}, []string{"mode"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "debtidy",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by mode and final status",
		}, []string{"mode", "outcome"})
		pr.fixersApplied = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "debtidy",
			Name:      "fixers_applied_total",
			Help:      "Count of runs in which each fixer changed something",
		}, []string{"fixer"})
		pr.fixersFailed = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "debtidy",
			Name:      "fixer_failures_total",
			Help:      "Count of fixer errors",
		}, []string{"fixer"})
		pr.filesChanged = prom.NewCounter(prom.CounterOpts{
			Namespace: "debtidy",
			Name:      "files_changed_total",
			Help:      "Total files rewritten or removed by fixers",
		})
		reg.MustRegister(pr.runDuration, pr.runOutcomes, pr.fixersApplied, pr.fixersFailed, pr.filesChanged)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(mode string, d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(mode string, success bool) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "success"
	}
	p.runOutcomes.WithLabelValues(mode, outcome).Inc()
}

func (p *PrometheusRecorder) IncFixerApplied(fixer string) {
	if p == nil || p.fixersApplied == nil {
		return
	}
	p.fixersApplied.WithLabelValues(fixer).Inc()
}

func (p *PrometheusRecorder) IncFixerFailed(fixer string) {
	if p == nil || p.fixersFailed == nil {
		return
	}
	p.fixersFailed.WithLabelValues(fixer).Inc()
}

func (p *PrometheusRecorder) AddFilesChanged(n int) {
	if p == nil || p.filesChanged == nil {
		return
	}
	p.filesChanged.Add(float64(n))
}
