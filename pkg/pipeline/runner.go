package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/source"
	"github.com/matzehuels/topoviz/pkg/topology"
	"github.com/matzehuels/topoviz/pkg/visualizer"
)

// Runner executes pipelines against a shared cache.
//
// It holds no per-run state, so one Runner may serve concurrent Execute
// calls with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Sources source.Options
}

// NewRunner creates a runner. A nil keyer selects DefaultKeyer and a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → simulate → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	t, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Topology = t
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = t.NodeCount()
	result.Stats.EdgeCount = t.EdgeCount()

	r.Logger.Info("loaded topology",
		"nodes", t.NodeCount(),
		"edges", t.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Simulate
	simStart := time.Now()
	sc, ticks, diags, err := r.Simulate(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = sc
	result.Diagnostics = diags
	result.Stats.Ticks = ticks
	result.Stats.Converged = !sc.Running
	result.Stats.SimulateTime = time.Since(simStart)

	r.Logger.Info("simulated layout",
		"ticks", ticks,
		"converged", result.Stats.Converged,
		"duration", result.Stats.SimulateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns opts.Topology when set, otherwise opens and loads
// opts.Source. Refresh bypasses the cache.
func (r *Runner) Load(ctx context.Context, opts Options) (*topology.Topology, error) {
	if opts.Topology != nil {
		return opts.Topology, nil
	}
	so := r.Sources
	so.Cache = r.Cache
	so.Keyer = r.Keyer
	so.Logger = r.Logger
	if opts.Refresh {
		so.Cache = nil
	}
	src, err := source.Open(opts.Source, so)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loading topology", "source", src)
	return src.Load(ctx)
}

// Simulate steps a fresh visualizer over t until it converges or
// MaxTicks frames have run, and returns the last scene with the tick count
// and adapter diagnostics.
func (r *Runner) Simulate(ctx context.Context, t *topology.Topology, opts Options) (*render.Scene, int, []*errors.Error, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, 0, nil, err
	}
	r.applyLogger(&opts)

	v := visualizer.New(visualizer.Options{
		Width:       opts.Width,
		Height:      opts.Height,
		Simulation:  opts.Simulation,
		Interaction: opts.Interaction,
		Render:      opts.Render,
		Logger:      opts.Logger,
	})
	diags := v.ReplaceContext(ctx, t)

	sc := v.Scene()
	ticks := 0
	for sc.Running && ticks < opts.MaxTicks {
		if err := ctx.Err(); err != nil {
			return nil, ticks, diags, errors.Wrap(errors.ErrCodeTimeout, err, "simulate")
		}
		sc, _ = v.Frame(ctx)
		ticks++
	}
	return sc, ticks, diags, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
