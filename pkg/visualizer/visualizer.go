package visualizer

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/topoviz/pkg/core/interact"
	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/observability"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options configures a Visualizer. Zero values select defaults.
type Options struct {
	Width  float64
	Height float64

	// Simulation is the template for every simulation built on Replace.
	// Its Width, Height and Logger are overridden.
	Simulation sim.Options
	// Interaction is the template for every controller. Its Logger is
	// overridden.
	Interaction interact.Options
	Render      []render.Option

	Logger *log.Logger
}

// Visualizer owns one simulation generation at a time. It is safe for
// concurrent use.
type Visualizer struct {
	opts    Options
	logger  *log.Logger
	builder *render.Builder

	mu          sync.Mutex
	input       *topology.Topology
	generation  string
	sim         *sim.Simulation
	ctrl        *interact.Controller
	diagnostics []*errors.Error
	scene       *render.Scene
	dirty       bool
	runStart    time.Time
}

// New returns a visualizer with an empty graph.
func New(opts Options) *Visualizer {
	if !(opts.Width > 0) {
		opts.Width = DefaultWidth
	}
	if !(opts.Height > 0) {
		opts.Height = DefaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	v := &Visualizer{
		opts:    opts,
		logger:  opts.Logger,
		builder: render.NewBuilder(opts.Render...),
	}
	v.replace(context.Background(), nil)
	return v
}

// Replace swaps in a new topology. Passing the pointer already shown is a
// no-op. Otherwise the old simulation is closed and its controller detached
// before the new generation is built, so no stale tick or event can reach
// it. The returned diagnostics list every rejected record.
func (v *Visualizer) Replace(t *topology.Topology) []*errors.Error {
	return v.ReplaceContext(context.Background(), t)
}

// ReplaceContext is Replace with a context for observability hooks.
func (v *Visualizer) ReplaceContext(ctx context.Context, t *topology.Topology) []*errors.Error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t == v.input && v.sim != nil {
		return v.diagnostics
	}
	v.replace(ctx, t)
	return v.diagnostics
}

// replace builds a new generation. Callers hold v.mu.
func (v *Visualizer) replace(ctx context.Context, t *topology.Topology) {
	if v.sim != nil {
		v.sim.Close()
		v.ctrl.Detach()
	}

	g, diags := sim.Adapt(t)
	hooks := observability.Simulation()
	for _, d := range diags {
		v.logger.Warn("rejected record", "code", d.Code, "err", d.Message)
		hooks.OnRejected(ctx, string(d.Code))
	}

	simOpts := v.opts.Simulation
	simOpts.Width, simOpts.Height = v.opts.Width, v.opts.Height
	simOpts.Logger = v.logger
	s := sim.New(g, simOpts)

	ctrlOpts := v.opts.Interaction
	ctrlOpts.Logger = v.logger
	ctrl := interact.NewController(interact.NewQueue(), ctrlOpts)
	s.SetPinner(ctrl)

	v.input = t
	v.sim, v.ctrl = s, ctrl
	v.diagnostics = diags
	v.generation = uuid.NewString()
	v.runStart = time.Now()
	v.builder.Reset()
	v.rebuild()

	hooks.OnReplace(ctx, v.generation, g.NodeCount(), g.EdgeCount(), len(diags))
	if t != nil {
		v.logger.Info("graph replaced",
			"generation", v.generation, "nodes", g.NodeCount(), "edges", g.EdgeCount(), "rejected", len(diags))
	}
}

// rebuild refreshes the scene from the current simulation. Callers hold v.mu.
func (v *Visualizer) rebuild() {
	vp := v.ctrl.Viewport()
	sc := v.builder.Build(v.sim.Snapshot(), render.Transform{K: vp.K, X: vp.X, Y: vp.Y})
	sc.Generation = v.generation
	v.scene = sc
	v.dirty = false
}

// Enqueue hands interaction events to the current generation. Events
// enqueued before a Replace are dropped with the old controller.
func (v *Visualizer) Enqueue(events ...interact.Event) {
	v.mu.Lock()
	q := v.ctrl.Queue()
	v.mu.Unlock()
	q.Push(events...)
}

// Frame applies pending events, steps the simulation once and rebuilds the
// scene if anything changed. Pinned nodes follow their pins even while the
// simulation is stopped. It returns the current scene and whether it
// is new.
func (v *Visualizer) Frame(ctx context.Context) (*render.Scene, bool) {
	start := time.Now()
	v.mu.Lock()
	defer v.mu.Unlock()

	wasRunning := v.sim.Running()
	ch := v.ctrl.Apply(v.sim)
	if !wasRunning && v.sim.Running() {
		v.runStart = start
	}
	running := v.sim.Running()

	ticked := v.sim.Step()
	if ticked {
		observability.Simulation().OnTick(ctx, v.sim.Alpha())
		if running && !v.sim.Running() {
			elapsed := time.Since(v.runStart)
			v.logger.Info("layout converged", "generation", v.generation, "ticks", v.sim.Ticks(), "elapsed", elapsed)
			observability.Simulation().OnConverged(ctx, v.sim.Ticks(), elapsed)
		}
	}

	if ch.PinsChanged && !ticked {
		v.sim.SyncPins()
	}

	changed := ticked || ch.Any() || v.dirty
	if changed {
		v.rebuild()
	}
	observability.Render().OnFrame(ctx, changed, time.Since(start))
	return v.scene, changed
}

// Run calls Frame every interval until ctx is done, handing each changed
// scene to fn.
func (v *Visualizer) Run(ctx context.Context, interval time.Duration, fn func(*render.Scene)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if sc, changed := v.Frame(ctx); changed && fn != nil {
				fn(sc)
			}
		}
	}
}

// Start resumes a stopped simulation.
func (v *Visualizer) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.sim.Running() {
		v.sim.Restart()
		v.runStart = time.Now()
		v.dirty = true
	}
}

// Stop pauses the simulation. Pins and the viewport keep working.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sim.Running() {
		v.sim.Stop()
		v.dirty = true
	}
}

// Scene returns the last built scene. Scenes are never mutated after they
// are returned.
func (v *Visualizer) Scene() *render.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

// Snapshot returns the current simulation state.
func (v *Visualizer) Snapshot() sim.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sim.Snapshot()
}

// Viewport returns the current viewport transform.
func (v *Visualizer) Viewport() interact.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ctrl.Viewport()
}

// Generation identifies the graph currently shown. It changes on every
// effective Replace.
func (v *Visualizer) Generation() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

// Diagnostics returns the records rejected by the last Replace.
func (v *Visualizer) Diagnostics() []*errors.Error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.diagnostics
}

// Size returns the canvas size in layout units.
func (v *Visualizer) Size() (width, height float64) {
	return v.opts.Width, v.opts.Height
}
