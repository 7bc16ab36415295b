package interact

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestViewportScaleClamp(t *testing.T) {
	tests := []struct {
		name    string
		factors []float64
		want    float64
	}{
		{"identity", nil, 1},
		{"zoom in", []float64{1.5}, 1.5},
		{"zoom in past max", []float64{10}, 2},
		{"zoom out past min", []float64{0.01}, 0.5},
		{"repeated extremes", []float64{1e9, 1e-9, 1e9}, 2},
		{"infinite", []float64{math.Inf(1)}, 2},
		{"zero ignored", []float64{1.2, 0}, 1.2},
		{"negative ignored", []float64{-3}, 1},
		{"NaN ignored", []float64{math.NaN()}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(DefaultMinScale, DefaultMaxScale)
			for _, f := range tt.factors {
				v.ScaleBy(f, r2.Vec{X: 100, Y: 50})
			}
			if math.Abs(v.K-tt.want) > 1e-12 {
				t.Errorf("K = %v, want %v", v.K, tt.want)
			}
		})
	}
}

func TestViewportAnchorStaysFixed(t *testing.T) {
	v := NewViewport(DefaultMinScale, DefaultMaxScale)
	v.TranslateBy(40, -20)
	anchor := r2.Vec{X: 320, Y: 240}
	before := v.Invert(anchor)

	v.ScaleBy(1.7, anchor)
	if got := v.Apply(before); math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Errorf("anchor moved to %v, want %v", got, anchor)
	}
}

func TestViewportInvert(t *testing.T) {
	v := Viewport{K: 1.25, X: 13, Y: -7, MinScale: 0.5, MaxScale: 2}
	p := r2.Vec{X: 91.5, Y: 33}
	got := v.Invert(v.Apply(p))
	if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Errorf("Invert(Apply(%v)) = %v", p, got)
	}
}

func TestViewportTranslateAndReset(t *testing.T) {
	v := NewViewport(0, 0)
	if v.MinScale != DefaultMinScale || v.MaxScale != DefaultMaxScale {
		t.Fatalf("bounds = [%v, %v], want defaults", v.MinScale, v.MaxScale)
	}
	if v.TranslateBy(math.Inf(1), 0) {
		t.Error("TranslateBy(Inf) should be ignored")
	}
	if !v.TranslateBy(5, 6) || v.X != 5 || v.Y != 6 {
		t.Errorf("TranslateBy(5, 6) = (%v, %v)", v.X, v.Y)
	}
	if !v.Reset() || v.K != 1 || v.X != 0 || v.Y != 0 {
		t.Errorf("Reset() left %v", v)
	}
	if v.Reset() {
		t.Error("second Reset() should report no change")
	}
	if got := v.String(); got != "translate(0.00,0.00) scale(1.0000)" {
		t.Errorf("String() = %q", got)
	}
}

func TestViewportHomeScaleWithinBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     float64
	}{
		{"contains one", 0.5, 2, 1},
		{"zoomed in only", 2, 4, 2},
		{"zoomed out only", 0.1, 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.min, tt.max)
			if v.K != tt.want {
				t.Errorf("NewViewport K = %v, want %v", v.K, tt.want)
			}
			v.ScaleBy(1e6, r2.Vec{X: 10, Y: 10})
			v.TranslateBy(3, 4)
			v.Reset()
			if v.K != tt.want || v.X != 0 || v.Y != 0 {
				t.Errorf("after Reset %v, want scale %v at origin", v, tt.want)
			}
			if v.K < v.MinScale || v.K > v.MaxScale {
				t.Errorf("K = %v outside [%v, %v]", v.K, v.MinScale, v.MaxScale)
			}
		})
	}
}

func TestViewportScaleProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("scale stays within bounds", prop.ForAll(
		func(factors []float64, ax, ay float64) bool {
			v := NewViewport(DefaultMinScale, DefaultMaxScale)
			for _, f := range factors {
				v.ScaleBy(f, r2.Vec{X: ax, Y: ay})
				if v.K < DefaultMinScale || v.K > DefaultMaxScale {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(
			gen.Float64Range(-10, 10),
			gen.Float64Range(0, 1e-6),
			gen.Float64Range(1e3, 1e12),
			gen.Const(math.Inf(1)),
			gen.Const(math.NaN()),
		)),
		gen.Float64Range(-1e4, 1e4),
		gen.Float64Range(-1e4, 1e4),
	))

	properties.TestingRun(t)
}
