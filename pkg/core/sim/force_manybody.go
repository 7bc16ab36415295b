package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// ManyBodyForce makes every node attract (positive strength) or repel
// (negative strength) every other node within DistanceMax.
//
// The contribution of node j on node i is delta * strength * alpha / d², where
// delta points from i to j. Squared distances below DistanceMin² are
// softened, which bounds the force between nearly coincident nodes.
type ManyBodyForce struct {
	Strength    float64
	DistanceMin float64
	DistanceMax float64

	rnd *rand.Rand
}

// NewManyBodyForce returns a many-body force with a minimum distance of 1.
func NewManyBodyForce(strength, distanceMax float64) *ManyBodyForce {
	return &ManyBodyForce{Strength: strength, DistanceMin: 1, DistanceMax: distanceMax}
}

func (f *ManyBodyForce) Name() string { return "charge" }

func (f *ManyBodyForce) Init(_ *Graph, rnd *rand.Rand) { f.rnd = rnd }

func (f *ManyBodyForce) Apply(acc *Accumulator, alpha float64) {
	n := acc.Len()
	min2 := f.DistanceMin * f.DistanceMin
	max2 := math.Inf(1)
	if f.DistanceMax > 0 {
		max2 = f.DistanceMax * f.DistanceMax
	}

	for i := 0; i < n; i++ {
		pi := acc.Pos(i)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := r2.Sub(acc.Pos(j), pi)
			l2 := r2.Norm2(d)
			if l2 >= max2 {
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
			if l2 < min2 {
				l2 = math.Sqrt(min2 * l2)
			}
			acc.AddVelocity(i, r2.Scale(f.Strength*alpha/l2, d))
		}
	}
}
