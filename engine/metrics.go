package engine

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	reports            *prometheus.CounterVec
	reportDuration     prometheus.Histogram
	reportRecords      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hwstatus",
			Name:      "evaluations_total",
			Help:      "Availability evaluations grouped by outcome.",
		}, []string{"outcome"}),
		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hwstatus",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of single availability evaluations.",
			Buckets:   prometheus.DefBuckets,
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hwstatus",
			Name:      "reports_total",
			Help:      "Availability reports grouped by status.",
		}, []string{"status"}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hwstatus",
			Name:      "report_duration_seconds",
			Help:      "End-to-end duration of availability reports.",
			Buckets:   prometheus.DefBuckets,
		}),
		reportRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hwstatus",
			Name:      "report_records",
			Help:      "Number of records in the most recent successful report.",
		}),
	}
	reg.MustRegister(m.evaluations, m.evaluationDuration, m.reports, m.reportDuration, m.reportRecords)
	return m
}
