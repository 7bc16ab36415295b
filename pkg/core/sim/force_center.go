package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// CenterForce translates the whole layout so that its centroid sits on
// Center. It does not change velocities.
type CenterForce struct {
	Center   r2.Vec
	Strength float64
}

// NewCenterForce returns a centering force on (x, y) with strength 1.
func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{Center: r2.Vec{X: x, Y: y}, Strength: 1}
}

func (f *CenterForce) Name() string { return "center" }

func (f *CenterForce) Init(*Graph, *rand.Rand) {}

func (f *CenterForce) Apply(acc *Accumulator, _ float64) {
	n := acc.Len()
	if n == 0 {
		return
	}
	var sum r2.Vec
	for i := 0; i < n; i++ {
		sum = r2.Add(sum, acc.Pos(i))
	}
	centroid := r2.Scale(1/float64(n), sum)
	shift := r2.Scale(f.Strength, r2.Sub(f.Center, centroid))
	for i := 0; i < n; i++ {
		acc.AddShift(i, shift)
	}
}
