package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// LinkForce pulls the endpoints of every edge toward a rest distance.
//
// The correction is split between the two endpoints in proportion to their
// link counts, so a hub moves less than the leaves attached to it.
type LinkForce struct {
	Distance float64
	Strength float64

	edges []Edge
	bias  []float64
	rnd   *rand.Rand
}

// NewLinkForce returns a link force with the given rest distance and strength.
func NewLinkForce(distance, strength float64) *LinkForce {
	return &LinkForce{Distance: distance, Strength: strength}
}

func (f *LinkForce) Name() string { return "link" }

func (f *LinkForce) Init(g *Graph, rnd *rand.Rand) {
	f.rnd = rnd
	f.edges = f.edges[:0]
	count := make([]int, len(g.Nodes))
	for _, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		f.edges = append(f.edges, e)
		count[e.Source]++
		count[e.Target]++
	}
	f.bias = make([]float64, len(f.edges))
	for i, e := range f.edges {
		f.bias[i] = float64(count[e.Source]) / float64(count[e.Source]+count[e.Target])
	}
}

func (f *LinkForce) Apply(acc *Accumulator, alpha float64) {
	for i, e := range f.edges {
		s, t := e.Source, e.Target
		d := r2.Sub(r2.Add(acc.Pos(t), acc.Vel(t)), r2.Add(acc.Pos(s), acc.Vel(s)))
		if d.X == 0 {
			d.X = jiggle(f.rnd)
		}
		if d.Y == 0 {
			d.Y = jiggle(f.rnd)
		}
		l := math.Hypot(d.X, d.Y)
		k := (l - f.Distance) / l * alpha * f.Strength
		d = r2.Scale(k, d)

		b := f.bias[i]
		acc.AddVelocity(t, r2.Scale(-b, d))
		acc.AddVelocity(s, r2.Scale(1-b, d))
	}
}
