package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analyzer and pipeline Prometheus metrics.
var (
	AnalyzerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textprep",
			Name:      "analyzer_requests_total",
			Help:      "Total number of morphological engine requests",
		},
		[]string{"endpoint", "status"},
	)

	AnalyzerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "textprep",
			Name:      "analyzer_request_duration_seconds",
			Help:      "Morphological engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)

	SentencesProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textprep",
			Name:      "sentences_processed_total",
			Help:      "Total sentences successfully processed by the pipeline",
		},
	)

	SentenceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textprep",
			Name:      "sentence_failures_total",
			Help:      "Total sentences dropped after a per-sentence processing failure",
		},
	)

	AnalyzerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textprep",
			Name:      "analyzer_cache_total",
			Help:      "Analyzer result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var analyzerMetricsRegistered bool

// RegisterAnalyzerMetrics registers the analyzer and pipeline metrics.
// Must be called once from main.
func RegisterAnalyzerMetrics() {
	if analyzerMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalyzerRequestsTotal)
	prometheus.MustRegister(AnalyzerRequestDuration)
	prometheus.MustRegister(SentencesProcessedTotal)
	prometheus.MustRegister(SentenceFailuresTotal)
	prometheus.MustRegister(AnalyzerCacheTotal)
	analyzerMetricsRegistered = true
}
