package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/citegraph/citegraph/pkg/observability"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_searches_total",
		Help: "Total number of paper searches, labelled by status.",
	}, []string{"status"})

	expandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_expands_total",
		Help: "Total number of node expansions, labelled by status.",
	}, []string{"status"})

	expandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citegraph_expand_duration_seconds",
		Help:    "Latency of node expansions including reference fetches.",
		Buckets: prometheus.DefBuckets,
	})

	collapsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citegraph_collapses_total",
		Help: "Total number of node collapses.",
	})

	cacheOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_cache_ops_total",
		Help: "Cache operations against the response cache, labelled by op and key type.",
	}, []string{"op", "key_type"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_upstream_requests_total",
		Help: "Outgoing requests to the bibliographic API, labelled by host and status.",
	}, []string{"host", "status"})

	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citegraph_upstream_duration_seconds",
		Help:    "Latency of upstream bibliographic API requests.",
		Buckets: prometheus.DefBuckets,
	})
)

// RegisterMetricsHooks wires Prometheus-backed implementations into the
// observability hook registry. Call once at server startup.
func RegisterMetricsHooks() {
	observability.SetExplorerHooks(promExplorerHooks{})
	observability.SetCacheHooks(promCacheHooks{})
	observability.SetHTTPHooks(promHTTPHooks{})
}

type promExplorerHooks struct{ observability.NoopExplorerHooks }

func (promExplorerHooks) OnSearchComplete(_ context.Context, _ string, _ time.Duration, err error) {
	searchesTotal.WithLabelValues(status(err)).Inc()
}

func (promExplorerHooks) OnExpandComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	expandsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		expandDuration.Observe(d.Seconds())
	}
}

func (promExplorerHooks) OnCollapse(context.Context, string, int) {
	collapsesTotal.Inc()
}

type promCacheHooks struct{}

func (promCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheOpsTotal.WithLabelValues("hit", keyType).Inc()
}

func (promCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheOpsTotal.WithLabelValues("miss", keyType).Inc()
}

func (promCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	cacheOpsTotal.WithLabelValues("set", keyType).Inc()
}

type promHTTPHooks struct{ observability.NoopHTTPHooks }

func (promHTTPHooks) OnResponse(_ context.Context, _, host, _ string, statusCode int, d time.Duration) {
	upstreamRequests.WithLabelValues(host, httpClass(statusCode)).Inc()
	upstreamDuration.Observe(d.Seconds())
}

func (promHTTPHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	upstreamRequests.WithLabelValues(host, "error").Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func httpClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
