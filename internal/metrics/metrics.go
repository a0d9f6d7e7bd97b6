package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	DonationsCreated        *prometheus.CounterVec
	DonationCreationErrs    prometheus.Counter
	ConsentEntriesWritten   *prometheus.CounterVec
	ConsentWriteFailures    prometheus.Counter
	SubscriptionTransitions *prometheus.CounterVec
	RecurringChargesTotal   *prometheus.CounterVec
	GatewayCallbacksTotal   *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionErrors prometheus.Counter

	// System Metrics
	ServiceUptime    prometheus.Gauge
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donations_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donations_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		// Business Metrics
		DonationsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_created_total",
				Help: "Total number of donations created",
			},
			[]string{"donation_type", "currency"},
		),
		DonationCreationErrs: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donations_creation_errors_total",
				Help: "Total number of donation creation errors",
			},
		),
		ConsentEntriesWritten: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_consent_entries_total",
				Help: "Total number of consent log entries written",
			},
			[]string{"action"},
		),
		ConsentWriteFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donations_consent_write_failures_total",
				Help: "Total number of consent log writes that failed and were suppressed",
			},
		),
		SubscriptionTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_subscription_transitions_total",
				Help: "Total number of subscription state transitions",
			},
			[]string{"action", "outcome"},
		),
		RecurringChargesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_recurring_charges_total",
				Help: "Total number of recurring charge attempts",
			},
			[]string{"status"},
		),
		GatewayCallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_gateway_callbacks_total",
				Help: "Total number of payment gateway callbacks",
			},
			[]string{"status"},
		),

		// Database Metrics
		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donations_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donations_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donations_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donations_db_connection_errors_total",
				Help: "Total number of database connection errors",
			},
		),

		// System Metrics
		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donations_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donations_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "donations_memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
			[]string{"type"},
		),

		// Validation Metrics
		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_validation_errors_total",
				Help: "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donations_validation_duration_seconds",
				Help:    "Duration of validation operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"endpoint"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordDonationCreated(donationType, currency string) {
	m.DonationsCreated.WithLabelValues(donationType, currency).Inc()
}

func (m *Metrics) RecordDonationCreationError() {
	m.DonationCreationErrs.Inc()
}

func (m *Metrics) RecordConsentEntry(action string) {
	m.ConsentEntriesWritten.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordConsentWriteFailure() {
	m.ConsentWriteFailures.Inc()
}

func (m *Metrics) RecordSubscriptionTransition(action, outcome string) {
	m.SubscriptionTransitions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordRecurringCharge(status string) {
	m.RecurringChargesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordGatewayCallback(status string) {
	m.GatewayCallbacksTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(endpoint string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))
	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))
}
