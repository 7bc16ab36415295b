package metrics

import (
	"context"
	"strconv"
	"time"
)

// RecordHTTPRequest records a served HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// OnReplace implements observability.SimulationHooks.
func (r *Registry) OnReplace(_ context.Context, _ string, nodes, edges, _ int) {
	r.GraphReplacementsTotal.Inc()
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// OnTick implements observability.SimulationHooks.
func (r *Registry) OnTick(_ context.Context, alpha float64) {
	r.SimulationTicksTotal.Inc()
	r.SimulationAlpha.Set(alpha)
}

// OnConverged implements observability.SimulationHooks.
func (r *Registry) OnConverged(_ context.Context, ticks int, elapsed time.Duration) {
	r.SimulationConvergenceTicks.Observe(float64(ticks))
	r.SimulationConvergenceTime.Observe(elapsed.Seconds())
}

// OnRejected implements observability.SimulationHooks.
func (r *Registry) OnRejected(_ context.Context, code string) {
	r.RecordsRejectedTotal.WithLabelValues(code).Inc()
}

// OnFrame implements observability.RenderHooks.
func (r *Registry) OnFrame(_ context.Context, changed bool, duration time.Duration) {
	r.FramesTotal.WithLabelValues(strconv.FormatBool(changed)).Inc()
	r.FrameDuration.Observe(duration.Seconds())
}

// OnRender implements observability.RenderHooks.
func (r *Registry) OnRender(_ context.Context, format string, size int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.RendersTotal.WithLabelValues(format, status).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err == nil {
		r.RenderSizeBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheOperationsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheOperationsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheOperationsTotal.WithLabelValues(keyType, "set").Inc()
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks. Requests are counted on
// completion.
func (r *Registry) OnRequest(context.Context, string, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, host, _ string, statusCode int, duration time.Duration) {
	r.HTTPClientRequestsTotal.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	r.HTTPClientDuration.WithLabelValues(method, host).Observe(duration.Seconds())
}

// OnError implements observability.HTTPHooks.
func (r *Registry) OnError(_ context.Context, method, host, _ string, _ error) {
	r.HTTPClientErrorsTotal.WithLabelValues(method, host).Inc()
}
