package interact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Scale bounds.
const (
	DefaultMinScale = 0.5
	DefaultMaxScale = 2.0
)

// Viewport maps layout space to screen space: screen = layout*K + (X, Y).
type Viewport struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`

	MinScale float64 `json:"-"`
	MaxScale float64 `json:"-"`
}

// NewViewport returns the home transform with the given scale bounds: no
// translation and a scale of 1 clamped into [minScale, maxScale]. Invalid
// bounds fall back to [DefaultMinScale, DefaultMaxScale].
func NewViewport(minScale, maxScale float64) Viewport {
	if !(minScale > 0) || !(maxScale >= minScale) || math.IsInf(maxScale, 0) {
		minScale, maxScale = DefaultMinScale, DefaultMaxScale
	}
	v := Viewport{MinScale: minScale, MaxScale: maxScale}
	v.K = v.homeScale()
	return v
}

func (v Viewport) homeScale() float64 {
	return math.Max(v.MinScale, math.Min(v.MaxScale, 1))
}

// Apply maps a layout point to the screen.
func (v Viewport) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*v.K + v.X, Y: p.Y*v.K + v.Y}
}

// Invert maps a screen point back into layout space.
func (v Viewport) Invert(p r2.Vec) r2.Vec {
	return r2.Vec{X: (p.X - v.X) / v.K, Y: (p.Y - v.Y) / v.K}
}

// ScaleBy multiplies the scale by factor around the screen point anchor and
// clamps the result to the bounds. Factors that are not positive numbers are
// ignored. It reports whether the transform changed.
func (v *Viewport) ScaleBy(factor float64, anchor r2.Vec) bool {
	if !(factor > 0) || !finite(anchor) {
		return false
	}
	k := math.Max(v.MinScale, math.Min(v.MaxScale, v.K*factor))
	if k == v.K {
		return false
	}
	p := v.Invert(anchor)
	v.K = k
	v.X = anchor.X - p.X*k
	v.Y = anchor.Y - p.Y*k
	return true
}

// TranslateBy moves the transform by (dx, dy) screen units. Non-finite
// offsets are ignored.
func (v *Viewport) TranslateBy(dx, dy float64) bool {
	if !finite(r2.Vec{X: dx, Y: dy}) || (dx == 0 && dy == 0) {
		return false
	}
	v.X += dx
	v.Y += dy
	return true
}

// Reset restores the home transform, keeping the bounds.
func (v *Viewport) Reset() bool {
	k := v.homeScale()
	changed := v.K != k || v.X != 0 || v.Y != 0
	v.K, v.X, v.Y = k, 0, 0
	return changed
}

// String renders the transform as an SVG transform attribute.
func (v Viewport) String() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", v.X, v.Y, v.K)
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
