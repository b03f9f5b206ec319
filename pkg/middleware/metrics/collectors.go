package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	scriptReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "script_reloads_total", Help: "script reloads by result"},
		[]string{"result"},
	)

	scriptExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "script_executions_total", Help: "script executions by language and result"},
		[]string{"language", "result"},
	)

	scriptExecutionTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "script_execution_seconds",
			Help:    "script evaluation time.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"language"},
	)
)

// Script outcome labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// ScriptReloaded counts one store update.
func ScriptReloaded(result string) {
	scriptReloads.WithLabelValues(result).Inc()
}

// ScriptExecuted counts one executor call; d is ignored for skipped runs.
func ScriptExecuted(language, result string, d time.Duration) {
	scriptExecutions.WithLabelValues(language, result).Inc()
	if result != ResultSkipped {
		scriptExecutionTime.WithLabelValues(language).Observe(d.Seconds())
	}
}

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		scriptReloads,
		scriptExecutions,
		scriptExecutionTime,
	)
}
