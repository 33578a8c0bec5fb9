package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the investments service.
// Every collector lives on its own registry so tests can create as many instances as they need.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	InvestorsRegistered prometheus.Counter
	InvestorsDeleted    prometheus.Counter
	InvestmentsChanged  *prometheus.CounterVec
	StorageUp           prometheus.Gauge
}

// New creates a new Metrics instance with all service metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "investments_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "investments_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		InvestorsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "investments_investors_registered_total",
			Help: "Total number of investors registered",
		}),
		InvestorsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "investments_investors_deleted_total",
			Help: "Total number of investors deleted",
		}),
		InvestmentsChanged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "investments_investments_changed_total",
			Help: "Total number of investments written, by operation",
		}, []string{"op"}),
		StorageUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "investments_storage_up",
			Help: "1 while the last storage ping succeeded",
		}),
	}
}

// ObserveHTTPRequest records one served request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// RecordInvestorRegistered records a successful registration.
func (m *Metrics) RecordInvestorRegistered() {
	m.InvestorsRegistered.Inc()
}

// RecordInvestorDeleted records a successful investor deletion.
func (m *Metrics) RecordInvestorDeleted() {
	m.InvestorsDeleted.Inc()
}

// RecordInvestments records n investments touched by op.
func (m *Metrics) RecordInvestments(op string, n int) {
	m.InvestmentsChanged.WithLabelValues(op).Add(float64(n))
}

// SetStorageUp records the outcome of the latest storage ping.
func (m *Metrics) SetStorageUp(up bool) {
	if up {
		m.StorageUp.Set(1)
		return
	}
	m.StorageUp.Set(0)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
