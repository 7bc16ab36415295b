// Package cache stores fetched topology documents between runs.
//
// Only raw source documents are cached (what an HTTP or database source
// returned), never computed layouts: every run starts its simulation from
// scratch.
//
// Backends:
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: caches nothing
//
// Wrap any backend with [Instrument] to report hits and misses through
// [github.com/matzehuels/topoviz/pkg/observability].
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/topoviz/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. Keys start with their type followed by ':',
// which is what [Instrument] reports as the key type.
type Keyer interface {
	// HTTPKey is the key of one HTTP response body.
	HTTPKey(namespace, key string) string
	// SourceKey is the key of a whole topology loaded from a source.
	SourceKey(kind, location string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SourceKey hashes the location so arbitrary URLs and connection strings
// make safe keys.
func (DefaultKeyer) SourceKey(kind, location string) string {
	return hashKey("source", kind, location)
}

type instrumented struct {
	Cache
}

// Instrument reports every Get and Set on c to the registered cache hooks.
func Instrument(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType classifies a possibly scoped key by its type segment.
func keyType(key string) string {
	for _, t := range []string{"source", "http"} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	return "other"
}
