package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Force contributes to node motion once per tick.
//
// Init is called once when the simulation is built, before any tick. Apply
// reads positions and velocities through the accumulator, which exposes the
// state as of the start of the tick, and writes velocity or position deltas
// into it.
type Force interface {
	Name() string
	Init(g *Graph, rnd *rand.Rand)
	Apply(acc *Accumulator, alpha float64)
}

// Accumulator collects the contributions of every force for one tick.
type Accumulator struct {
	pos    []r2.Vec
	vel    []r2.Vec
	pinned []bool
	dv     []r2.Vec
	dp     []r2.Vec
}

func (a *Accumulator) reset(g *Graph, pins Pinner) {
	n := len(g.Nodes)
	if cap(a.pos) < n {
		a.pos = make([]r2.Vec, n)
		a.vel = make([]r2.Vec, n)
		a.pinned = make([]bool, n)
		a.dv = make([]r2.Vec, n)
		a.dp = make([]r2.Vec, n)
	}
	a.pos, a.vel, a.pinned = a.pos[:n], a.vel[:n], a.pinned[:n]
	a.dv, a.dp = a.dv[:n], a.dp[:n]
	for i := range g.Nodes {
		a.pos[i] = g.Nodes[i].Pos
		a.vel[i] = g.Nodes[i].Vel
		a.dv[i] = r2.Vec{}
		a.dp[i] = r2.Vec{}
		a.pinned[i] = false
		if pins != nil {
			if p, ok := pins.Pin(i); ok {
				// A held node acts on the others from where it is held.
				a.pos[i] = p
				a.vel[i] = r2.Vec{}
				a.pinned[i] = true
			}
		}
	}
}

// Len returns the number of nodes.
func (a *Accumulator) Len() int { return len(a.pos) }

// Pos returns the position of node i at the start of the tick.
func (a *Accumulator) Pos(i int) r2.Vec { return a.pos[i] }

// Vel returns the velocity of node i at the start of the tick.
func (a *Accumulator) Vel(i int) r2.Vec { return a.vel[i] }

// Pinned reports whether node i is held this tick.
func (a *Accumulator) Pinned(i int) bool { return a.pinned[i] }

// AddVelocity adds v to the velocity change of node i.
func (a *Accumulator) AddVelocity(i int, v r2.Vec) { a.dv[i] = r2.Add(a.dv[i], v) }

// AddShift adds v to the direct position change of node i.
func (a *Accumulator) AddShift(i int, v r2.Vec) { a.dp[i] = r2.Add(a.dp[i], v) }

// VelocityDelta returns the accumulated velocity change of node i.
func (a *Accumulator) VelocityDelta(i int) r2.Vec { return a.dv[i] }

// ShiftDelta returns the accumulated position change of node i.
func (a *Accumulator) ShiftDelta(i int) r2.Vec { return a.dp[i] }

// jiggle returns a tiny non-zero offset used to separate coincident points.
func jiggle(rnd *rand.Rand) float64 {
	if v := (rnd.Float64() - 0.5) * 1e-6; v != 0 {
		return v
	}
	return 1e-7
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
