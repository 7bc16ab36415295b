// Package metrics exports Prometheus metrics for the visualizer.
//
// A [Registry] implements every hook interface in
// [github.com/matzehuels/topoviz/pkg/observability], so registering it at
// startup is all a binary needs:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/topoviz/pkg/observability"
)

const namespace = "topoviz"

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphReplacementsTotal prometheus.Counter
	GraphNodes             prometheus.Gauge
	GraphEdges             prometheus.Gauge
	RecordsRejectedTotal   *prometheus.CounterVec

	// Simulation Metrics
	SimulationTicksTotal       prometheus.Counter
	SimulationAlpha            prometheus.Gauge
	SimulationConvergenceTicks prometheus.Histogram
	SimulationConvergenceTime  prometheus.Histogram

	// Render Metrics
	FramesTotal     *prometheus.CounterVec
	FrameDuration   prometheus.Histogram
	RendersTotal    *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	RenderSizeBytes *prometheus.HistogramVec

	// Cache Metrics
	CacheOperationsTotal *prometheus.CounterVec
	CacheWrittenBytes    *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	HTTPClientRequestsTotal *prometheus.CounterVec
	HTTPClientDuration      *prometheus.HistogramVec
	HTTPClientErrorsTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	_ observability.SimulationHooks = (*Registry)(nil)
	_ observability.RenderHooks     = (*Registry)(nil)
	_ observability.CacheHooks      = (*Registry)(nil)
	_ observability.HTTPHooks       = (*Registry)(nil)
)

// NewRegistry creates a registry with all metrics registered on a fresh
// Prometheus registry, plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initGraphMetrics()
	r.initSimulationMetrics()
	r.initRenderMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Install registers r as the global observability hooks.
func (r *Registry) Install() {
	observability.SetSimulationHooks(r)
	observability.SetRenderHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// Gatherer exposes the underlying Prometheus registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
