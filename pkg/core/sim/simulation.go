package sim

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

// Cooling and layout defaults.
const (
	DefaultAlphaMin      = 0.001
	DefaultAlphaDecay    = 0.0228 // 1 - alphaMin^(1/300)
	DefaultVelocityDecay = 0.6
	DefaultSeed          = 42

	DefaultLinkDistance      = 100
	DefaultLinkStrength      = 1.0
	DefaultChargeStrength    = -800
	DefaultChargeDistanceMax = 300
	DefaultCollideRadius     = 60
)

// Nodes are seeded on a phyllotaxis spiral so the first ticks never see
// coincident points.
const initialRadius = 10

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Pinner reports which nodes are held in place. The interaction controller
// implements it; the simulation only reads it.
type Pinner interface {
	Pin(i int) (r2.Vec, bool)
}

// ForceConfig holds the parameters of the default force set.
type ForceConfig struct {
	LinkDistance      float64
	LinkStrength      float64
	ChargeStrength    float64
	ChargeDistanceMax float64
	CollideRadius     float64
}

// DefaultForceConfig returns the standard topology force parameters.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		LinkDistance:      DefaultLinkDistance,
		LinkStrength:      DefaultLinkStrength,
		ChargeStrength:    DefaultChargeStrength,
		ChargeDistanceMax: DefaultChargeDistanceMax,
		CollideRadius:     DefaultCollideRadius,
	}
}

// Forces builds link, many-body, center and collide forces, in that order,
// centered on (cx, cy).
func (c ForceConfig) Forces(cx, cy float64) []Force {
	return []Force{
		NewLinkForce(c.LinkDistance, c.LinkStrength),
		NewManyBodyForce(c.ChargeStrength, c.ChargeDistanceMax),
		NewCenterForce(cx, cy),
		NewCollideForce(c.CollideRadius),
	}
}

// Options configures a Simulation. Zero values select defaults.
type Options struct {
	Width  float64
	Height float64

	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64
	Seed          uint64

	// Forces overrides the default force set built from ForceConfig.
	Forces      []Force
	ForceConfig *ForceConfig

	Logger *log.Logger
}

// Simulation advances a Graph one tick at a time.
//
// It is not safe for concurrent use; the owner serializes calls.
type Simulation struct {
	graph  *Graph
	forces []Force
	pins   Pinner
	acc    Accumulator
	rnd    *rand.Rand
	logger *log.Logger

	alpha         float64
	alphaTarget   float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64

	running bool
	closed  bool
	ticks   int
	width   float64
	height  float64
}

// New seeds node positions around the canvas center and returns a running
// simulation with alpha 1. An empty graph yields a simulation that is
// already stopped.
func New(g *Graph, opts Options) *Simulation {
	if g == nil {
		g = &Graph{index: map[string]int{}}
	}
	if opts.AlphaMin <= 0 {
		opts.AlphaMin = DefaultAlphaMin
	}
	if opts.AlphaDecay <= 0 || opts.AlphaDecay >= 1 {
		opts.AlphaDecay = DefaultAlphaDecay
	}
	if opts.VelocityDecay <= 0 || opts.VelocityDecay > 1 {
		opts.VelocityDecay = DefaultVelocityDecay
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Simulation{
		graph:         g,
		rnd:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		logger:        opts.Logger,
		alpha:         1,
		alphaMin:      opts.AlphaMin,
		alphaDecay:    opts.AlphaDecay,
		velocityDecay: opts.VelocityDecay,
		running:       len(g.Nodes) > 0,
		width:         opts.Width,
		height:        opts.Height,
	}

	cx, cy := opts.Width/2, opts.Height/2
	s.forces = opts.Forces
	if s.forces == nil {
		cfg := DefaultForceConfig()
		if opts.ForceConfig != nil {
			cfg = *opts.ForceConfig
		}
		s.forces = cfg.Forces(cx, cy)
	}

	for i := range g.Nodes {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		g.Nodes[i].Pos = r2.Vec{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		g.Nodes[i].Vel = r2.Vec{}
	}
	for _, f := range s.forces {
		f.Init(g, s.rnd)
	}
	return s
}

// SetPinner installs the source of pinned positions. Passing nil releases
// every pin.
func (s *Simulation) SetPinner(p Pinner) { s.pins = p }

// Step advances one tick if the simulation is running. It reports whether a
// tick happened. After the tick, the simulation stops itself once alpha has
// cooled below alphaMin and alphaTarget is not holding it up.
func (s *Simulation) Step() bool {
	if s.closed || !s.running {
		return false
	}
	s.Tick()
	if s.alpha < s.alphaMin && s.alphaTarget < s.alphaMin {
		s.running = false
		s.logger.Debug("simulation converged", "ticks", s.ticks, "alpha", s.alpha)
	}
	return true
}

// Tick advances exactly one tick regardless of the running state. It does
// nothing once the simulation is closed or when the graph is empty.
func (s *Simulation) Tick() {
	if s.closed || len(s.graph.Nodes) == 0 {
		return
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.acc.reset(s.graph, s.pins)
	for _, f := range s.forces {
		f.Apply(&s.acc, s.alpha)
	}

	for i := range s.graph.Nodes {
		n := &s.graph.Nodes[i]
		if s.acc.pinned[i] {
			n.Pos = s.acc.pos[i]
			n.Vel = r2.Vec{}
			continue
		}
		v := r2.Scale(s.velocityDecay, r2.Add(n.Vel, s.acc.dv[i]))
		if !finite(v) {
			v = r2.Vec{}
		}
		p := r2.Add(n.Pos, r2.Add(v, s.acc.dp[i]))
		if !finite(p) {
			continue
		}
		n.Pos, n.Vel = p, v
	}
	s.ticks++
}

// SyncPins places every held node at its pin with zero velocity without
// running forces or advancing alpha. It lets a paused layout follow a drag.
func (s *Simulation) SyncPins() {
	if s.closed || s.pins == nil {
		return
	}
	for i := range s.graph.Nodes {
		if p, ok := s.pins.Pin(i); ok && finite(p) {
			s.graph.Nodes[i].Pos = p
			s.graph.Nodes[i].Vel = r2.Vec{}
		}
	}
}

// Restart resumes ticking. It has no effect on a closed simulation.
func (s *Simulation) Restart() {
	if s.closed || len(s.graph.Nodes) == 0 {
		return
	}
	s.running = true
}

// Stop pauses ticking until Restart.
func (s *Simulation) Stop() { s.running = false }

// Close stops the simulation for good. Every later Step, Tick or Restart is
// a no-op.
func (s *Simulation) Close() {
	s.closed = true
	s.running = false
	s.pins = nil
}

// Alpha returns the current cooling value.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha overrides the cooling value, clamped to [0, 1].
func (s *Simulation) SetAlpha(a float64) { s.alpha = clamp(a, 0, 1) }

// AlphaTarget returns the value alpha is currently cooling toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha cools toward, clamped to [0, 1].
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = clamp(a, 0, 1) }

// AlphaMin returns the convergence threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Running reports whether Step will advance.
func (s *Simulation) Running() bool { return s.running }

// Closed reports whether Close was called.
func (s *Simulation) Closed() bool { return s.closed }

// Converged reports whether alpha has cooled below alphaMin with no target
// holding it up.
func (s *Simulation) Converged() bool {
	return s.alpha < s.alphaMin && s.alphaTarget < s.alphaMin
}

// Ticks returns the number of ticks applied so far.
func (s *Simulation) Ticks() int { return s.ticks }

// NodeCount returns the number of simulated nodes.
func (s *Simulation) NodeCount() int { return len(s.graph.Nodes) }

// Index returns the arena index of a node id.
func (s *Simulation) Index(id string) (int, bool) { return s.graph.Index(id) }

// Position returns the current position of node i.
func (s *Simulation) Position(i int) r2.Vec { return s.graph.Nodes[i].Pos }

// Velocity returns the current velocity of node i.
func (s *Simulation) Velocity(i int) r2.Vec { return s.graph.Nodes[i].Vel }

// Nearest returns the node closest to p within radius, or -1.
func (s *Simulation) Nearest(p r2.Vec, radius float64) int {
	best, bestD := -1, radius*radius
	for i := range s.graph.Nodes {
		if d := r2.Norm2(r2.Sub(s.graph.Nodes[i].Pos, p)); d <= bestD {
			best, bestD = i, d
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
