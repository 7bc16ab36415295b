// Package httputil provides the HTTP client used by remote topology sources.
//
// # Client
//
// [Client] fetches documents with GET, retries transient failures and
// optionally caches bodies in a [github.com/matzehuels/topoviz/pkg/cache.Cache]:
//
//	c := httputil.NewClient(httputil.ClientOptions{
//	    Cache: cache.Instrument(fc),
//	    TTL:   5 * time.Minute,
//	})
//	var nodes []topology.Node
//	err := c.GetJSON(ctx, base+"/api/network/nodes", &nodes)
//
// Every request reports to the registered
// [github.com/matzehuels/topoviz/pkg/observability.HTTPHooks].
//
// # Retry
//
// [Retry] re-runs a function while it fails with a [RetryableError],
// doubling the delay between attempts. The client marks network errors,
// 5xx and 429 responses retryable; 404 and other 4xx fail at once.
package httputil
