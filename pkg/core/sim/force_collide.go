package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// CollideForce treats nodes as discs and pushes overlapping pairs apart.
//
// Overlap is measured on predicted positions (position plus velocity) and
// resolved in proportion to squared radii. Unlike the other forces it is
// not scaled by alpha.
type CollideForce struct {
	Radius   float64
	Strength float64

	rnd *rand.Rand
}

// NewCollideForce returns a collision force with the given per-node radius.
func NewCollideForce(radius float64) *CollideForce {
	return &CollideForce{Radius: radius, Strength: 1}
}

func (f *CollideForce) Name() string { return "collide" }

func (f *CollideForce) Init(_ *Graph, rnd *rand.Rand) { f.rnd = rnd }

func (f *CollideForce) Apply(acc *Accumulator, _ float64) {
	n := acc.Len()
	ri, rj := f.Radius, f.Radius
	r := ri + rj
	w := (rj * rj) / (ri*ri + rj*rj)

	for i := 0; i < n; i++ {
		pi := r2.Add(acc.Pos(i), acc.Vel(i))
		for j := i + 1; j < n; j++ {
			pj := r2.Add(acc.Pos(j), acc.Vel(j))
			d := r2.Sub(pi, pj)
			l2 := r2.Norm2(d)
			if l2 >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = jiggle(f.rnd)
				l2 += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = jiggle(f.rnd)
				l2 += d.Y * d.Y
			}
			l := math.Sqrt(l2)
			d = r2.Scale((r-l)/l*f.Strength, d)
			acc.AddVelocity(i, r2.Scale(w, d))
			acc.AddVelocity(j, r2.Scale(-(1-w), d))
		}
	}
}
