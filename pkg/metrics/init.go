package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	f := promauto.With(r.registry)
	r.GraphReplacementsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_replacements_total",
		Help:      "Number of times the displayed topology was replaced",
	})
	r.GraphNodes = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_nodes",
		Help:      "Nodes in the current graph",
	})
	r.GraphEdges = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_edges",
		Help:      "Resolved edges in the current graph",
	})
	r.RecordsRejectedTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_rejected_total",
		Help:      "Input records and events rejected, by error code",
	}, []string{"code"})
}

func (r *Registry) initSimulationMetrics() {
	f := promauto.With(r.registry)
	r.SimulationTicksTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_ticks_total",
		Help:      "Integration steps taken",
	})
	r.SimulationAlpha = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "simulation_alpha",
		Help:      "Current simulation energy",
	})
	r.SimulationConvergenceTicks = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_convergence_ticks",
		Help:      "Ticks from start to rest",
		Buckets:   []float64{10, 50, 100, 200, 300, 500, 1000},
	})
	r.SimulationConvergenceTime = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_convergence_seconds",
		Help:      "Wall time from start to rest",
		Buckets:   prometheus.DefBuckets,
	})
}

func (r *Registry) initRenderMetrics() {
	f := promauto.With(r.registry)
	r.FramesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Frames produced, split by whether anything changed",
	}, []string{"changed"})
	r.FrameDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "frame_duration_seconds",
		Help:      "Time to apply events, step and build one frame",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Scenes drawn to an output format",
	}, []string{"format", "status"})
	r.RenderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Time to draw one scene",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})
	r.RenderSizeBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_size_bytes",
		Help:      "Size of drawn output",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"format"})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheOperationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Cache lookups and writes",
	}, []string{"key_type", "result"})
	r.CacheWrittenBytes = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache",
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	r.HTTPClientRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_client_requests_total",
		Help:      "Outgoing HTTP requests by host and status",
	}, []string{"method", "host", "status"})
	r.HTTPClientDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_client_duration_seconds",
		Help:      "Outgoing HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "host"})
	r.HTTPClientErrorsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_client_errors_total",
		Help:      "Outgoing HTTP requests that failed without a response",
	}, []string{"method", "host"})
}
