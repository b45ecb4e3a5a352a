package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sync pipeline Prometheus metrics.
var (
	PipelineRowsDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinedex",
			Name:      "etl_rows_detected_total",
			Help:      "Changed source rows detected per kind",
		},
		[]string{"kind"},
	)

	PipelineDocumentsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinedex",
			Name:      "etl_documents_loaded_total",
			Help:      "Documents upserted into the search index",
		},
		[]string{"index"},
	)

	PipelineRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinedex",
			Name:      "etl_retries_total",
			Help:      "Retried external calls by operation",
		},
		[]string{"operation"},
	)

	PipelinePassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinedex",
			Name:      "etl_pass_duration_seconds",
			Help:      "Duration of one pipeline pass per kind",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"kind", "status"},
	)

	PipelineWatermark = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cinedex",
			Name:      "etl_watermark_timestamp_seconds",
			Help:      "Committed watermark per kind as unix time",
		},
		[]string{"kind"},
	)

	PipelineState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cinedex",
			Name:      "etl_state",
			Help:      "Current pipeline state per kind (0=idle 1=detecting 2=expanding 3=fetching 4=transforming 5=loading 6=committing)",
		},
		[]string{"kind"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers sync pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRowsDetectedTotal)
	prometheus.MustRegister(PipelineDocumentsLoadedTotal)
	prometheus.MustRegister(PipelineRetriesTotal)
	prometheus.MustRegister(PipelinePassDuration)
	prometheus.MustRegister(PipelineWatermark)
	prometheus.MustRegister(PipelineState)
	pipelineMetricsRegistered = true
}
