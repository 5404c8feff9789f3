package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every spiralite collector.
var Registry = prometheus.NewRegistry()

var (
	interpretations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spiralite_interpretations_total",
		Help: "Interpretation round trips by outcome (ok, failed).",
	}, []string{"outcome"})

	parseMethods = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spiralite_parse_method_total",
		Help: "Completions parsed, by the parser stage that produced the result.",
	}, []string{"method"})

	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spiralite_persist_failures_total",
		Help: "Snapshot writes that failed.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spiralite_http_requests_total",
		Help: "HTTP requests by route template, method and status code.",
	}, []string{"route", "method", "status"})
)

func init() {
	Registry.MustRegister(
		interpretations,
		parseMethods,
		persistFailures,
		httpRequests,
		collectors.NewGoCollector(),
	)
}

func RecordInterpretation(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	interpretations.WithLabelValues(outcome).Inc()
}

func RecordParseMethod(method string) {
	parseMethods.WithLabelValues(method).Inc()
}

func RecordPersistFailure() {
	persistFailures.Inc()
}

func RecordHTTPRequest(route, method, status string) {
	httpRequests.WithLabelValues(route, method, status).Inc()
}

// MetricsHandler serves the spiralite registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
