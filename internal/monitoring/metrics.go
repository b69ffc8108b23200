package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RowsRead       *prometheus.CounterVec
	RowsDropped    *prometheus.CounterVec
	SourceErrors   *prometheus.CounterVec
	PipelineRuns   prometheus.Histogram
	ScraperRuns    *prometheus.CounterVec
	ScraperSeconds *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
	HTTPLatency    *prometheus.HistogramVec
}

// New registra los colectores en reg; nil usa un registro propio (tests).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lpd",
			Name:      "source_rows_total",
			Help:      "Rows read from each tabular source.",
		}, []string{"source"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lpd",
			Name:      "source_rows_dropped_total",
			Help:      "Rows excluded because their date could not be parsed.",
		}, []string{"source", "reason"}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lpd",
			Name:      "source_errors_total",
			Help:      "Structural or read failures per source.",
		}, []string{"source"}),
		PipelineRuns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lpd",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a full read-clean pass over every source.",
			Buckets:   prometheus.DefBuckets,
		}),
		ScraperRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lpd",
			Name:      "scraper_runs_total",
			Help:      "Scraper subprocess runs by result.",
		}, []string{"scraper", "result"}),
		ScraperSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lpd",
			Name:      "scraper_duration_seconds",
			Help:      "Scraper subprocess wall time.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"scraper"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lpd",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lpd",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.RowsRead, m.RowsDropped, m.SourceErrors, m.PipelineRuns,
		m.ScraperRuns, m.ScraperSeconds, m.HTTPRequests, m.HTTPLatency,
	)
	return m
}

func (m *Metrics) ObservePipeline(start time.Time) {
	if m == nil {
		return
	}
	m.PipelineRuns.Observe(time.Since(start).Seconds())
}

func (m *Metrics) Rows(source string, read int) {
	if m == nil {
		return
	}
	m.RowsRead.WithLabelValues(source).Add(float64(read))
}

func (m *Metrics) Dropped(source, reason string) {
	if m == nil {
		return
	}
	m.RowsDropped.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) SourceError(source string) {
	if m == nil {
		return
	}
	m.SourceErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) Scraper(name string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.ScraperRuns.WithLabelValues(name, result).Inc()
	m.ScraperSeconds.WithLabelValues(name).Observe(d.Seconds())
}
