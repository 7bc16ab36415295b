package source

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Watch loads src immediately and then every interval, calling fn whenever
// the loaded content differs from the last delivered topology. Identical
// reloads are dropped so the layout is not restarted for nothing. Load
// errors are logged and retried on the next tick. Watch returns when ctx
// is done.
func Watch(ctx context.Context, src Source, interval time.Duration, logger *log.Logger, fn func(*topology.Topology)) error {
	if logger == nil {
		logger = log.Default()
	}
	var last string
	poll := func() {
		t, err := src.Load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("reload failed", "source", src, "err", err)
			}
			return
		}
		data, err := topology.Marshal(t, topology.FormatJSON)
		if err != nil {
			logger.Warn("reload failed", "source", src, "err", err)
			return
		}
		if h := cache.Hash(data); h != last {
			last = h
			logger.Debug("topology changed", "source", src, "nodes", t.NodeCount(), "edges", t.EdgeCount())
			fn(t)
		}
	}

	poll()
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		}
	}
}
