package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pages         *prom.CounterVec
	duplicates    prom.Counter
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "static_i18n",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by locale build",
		}, []string{"locale"}),
		duplicates: prom.NewCounter(prom.CounterOpts{
			Namespace: "static_i18n",
			Name:      "search_duplicates_removed_total",
			Help:      "Locale search entries removed as duplicates of default entries",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "static_i18n",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "static_i18n",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.pages, pr.duplicates, pr.buildDuration, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObservePages(locale string, n int) {
	if p == nil {
		return
	}
	if locale == "" {
		locale = "root"
	}
	p.pages.WithLabelValues(locale).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveDuplicates(n int) {
	if p == nil {
		return
	}
	p.duplicates.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

// HTTPHandler serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
