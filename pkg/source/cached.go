package source

import (
	"context"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/topology"
)

type cached struct {
	inner Source
	cache cache.Cache
	key   string
	opts  Options
}

// Cached wraps a source so whole topologies are stored under
// Keyer.SourceKey(kind, location). Cache failures are logged and ignored.
func Cached(inner Source, kind, location string, opts Options) Source {
	if opts.Cache == nil {
		return inner
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	return &cached{
		inner: inner,
		cache: opts.Cache,
		key:   opts.Keyer.SourceKey(kind, location),
		opts:  opts,
	}
}

func (c *cached) Load(ctx context.Context) (*topology.Topology, error) {
	data, ok, err := c.cache.Get(ctx, c.key)
	if err != nil && c.opts.Logger != nil {
		c.opts.Logger.Warn("cache read failed", "source", c.inner, "err", err)
	}
	if ok {
		if t, err := topology.Unmarshal(data, topology.FormatJSON); err == nil {
			return t, nil
		}
	}

	t, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := topology.Marshal(t, topology.FormatJSON); err == nil {
		if err := c.cache.Set(ctx, c.key, data, c.opts.TTL); err != nil && c.opts.Logger != nil {
			c.opts.Logger.Warn("cache write failed", "source", c.inner, "err", err)
		}
	}
	return t, nil
}

func (c *cached) String() string { return c.inner.String() }
