package operations

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InsightMetrics are the per-detector Prometheus collectors
type InsightMetrics struct {
	Runs          *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	ExceptionRows *prometheus.GaugeVec
}

// NewInsightMetrics registers the collectors with reg
func NewInsightMetrics(reg prometheus.Registerer) *InsightMetrics {
	factory := promauto.With(reg)
	return &InsightMetrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jk_insights",
			Name:      "insight_runs_total",
			Help:      "Insight detector runs by insight and outcome.",
		}, []string{"insight", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jk_insights",
			Name:      "insight_run_duration_seconds",
			Help:      "Time spent running one insight detector, including the workbook write.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"insight"}),
		ExceptionRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "jk_insights",
			Name:      "exception_rows",
			Help:      "Rows written by the latest run of each insight output.",
		}, []string{"output"}),
	}
}

func (m *InsightMetrics) observe(res InsightResult, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(res.Insight, string(res.Status)).Inc()
	m.Duration.WithLabelValues(res.Insight).Observe(d.Seconds())
	for _, o := range res.Outputs {
		rows := 0
		for _, n := range o.Rows {
			rows += n
		}
		m.ExceptionRows.WithLabelValues(o.ID).Set(float64(rows))
	}
}
