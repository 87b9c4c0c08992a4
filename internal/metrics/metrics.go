package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService interface {
	GetRegistry() *prometheus.Registry
	IncNumRequests(endpoint, method string, statusCode int)
	ObserveRequestDuration(endpoint, method string, duration float64)
	IncRPCRequests(method string)
	ObserveRPCRequestDuration(method string, duration float64)
	IncRPCRequestErrors(method, errorType string)
}

// metricsService handles all metrics for the estate-frontend
type metricsService struct {
	registry *prometheus.Registry

	// HTTP Request Metrics
	numRequestsTotal *prometheus.CounterVec
	requestsDuration *prometheus.SummaryVec

	// Node RPC Metrics
	rpcRequestsTotal      *prometheus.CounterVec
	rpcRequestsDuration   *prometheus.SummaryVec
	rpcRequestErrorsTotal *prometheus.CounterVec
}

var _ MetricsService = (*metricsService)(nil)

// NewMetricsService creates a new metrics service with all metrics registered
// on a fresh registry.
func NewMetricsService() MetricsService {
	m := &metricsService{
		registry: prometheus.NewRegistry(),
	}

	m.numRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.requestsDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
	}, []string{"endpoint", "method"})

	m.rpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_requests_total",
		Help: "Total number of JSON-RPC requests sent to the node",
	}, []string{"method"})

	m.rpcRequestsDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "rpc_request_duration_seconds",
		Help: "Duration of JSON-RPC requests in seconds",
	}, []string{"method"})

	m.rpcRequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_request_errors_total",
		Help: "Total number of failed JSON-RPC requests",
	}, []string{"method", "error_type"})

	m.registry.MustRegister(
		m.numRequestsTotal,
		m.requestsDuration,
		m.rpcRequestsTotal,
		m.rpcRequestsDuration,
		m.rpcRequestErrorsTotal,
	)

	return m
}

func (m *metricsService) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.numRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

func (m *metricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.requestsDuration.WithLabelValues(endpoint, method).Observe(duration)
}

func (m *metricsService) IncRPCRequests(method string) {
	m.rpcRequestsTotal.WithLabelValues(method).Inc()
}

func (m *metricsService) ObserveRPCRequestDuration(method string, duration float64) {
	m.rpcRequestsDuration.WithLabelValues(method).Observe(duration)
}

func (m *metricsService) IncRPCRequestErrors(method, errorType string) {
	m.rpcRequestErrorsTotal.WithLabelValues(method, errorType).Inc()
}
