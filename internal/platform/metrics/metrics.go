package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the alert service. Constructed
// once in main and handed to the features that record into it.
type Metrics struct {
	CitizensRegistered  prometheus.Counter
	ReportsReceived     prometheus.Counter
	ReportsUnauthorized prometheus.Counter
	AlertsSent          prometheus.Counter
	AlertsFailed        prometheus.Counter
	DispatchDuration    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CitizensRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aqualert_citizens_registered_total",
			Help: "Total citizen registrations processed (inserts and updates)",
		}),
		ReportsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aqualert_reports_received_total",
			Help: "Total incident reports received",
		}),
		ReportsUnauthorized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aqualert_reports_unauthorized_total",
			Help: "Incident reports rejected by the organization credential check",
		}),
		AlertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aqualert_alerts_sent_total",
			Help: "Alert notifications handed to the sender successfully",
		}),
		AlertsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aqualert_alerts_failed_total",
			Help: "Alert notifications the sender failed to deliver",
		}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aqualert_dispatch_duration_seconds",
			Help:    "Wall time of one report fan-out",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementCitizensRegistered increments the registration counter by 1.
func (m *Metrics) IncrementCitizensRegistered() {
	if m != nil {
		m.CitizensRegistered.Inc()
	}
}

// IncrementReportsReceived increments the received report counter by 1.
func (m *Metrics) IncrementReportsReceived() {
	if m != nil {
		m.ReportsReceived.Inc()
	}
}

// IncrementReportsUnauthorized increments the rejected report counter by 1.
func (m *Metrics) IncrementReportsUnauthorized() {
	if m != nil {
		m.ReportsUnauthorized.Inc()
	}
}
