package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Transform is the viewport applied on top of layout coordinates:
// screen = layout*K + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a layout point to the screen.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", t.X, t.Y, t.K)
}

// Marker is an arrowhead definition.
type Marker struct {
	ID      string  `json:"id"`
	Color   string  `json:"color"`
	RefX    float64 `json:"ref_x"`
	Size    float64 `json:"size"`
	ViewBox string  `json:"view_box"`
	Path    string  `json:"path"`
}

// Stop is one color stop of a gradient. Offset is in [0, 1].
type Stop struct {
	Offset  float64 `json:"offset"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Gradient is a radial gradient definition owned by one node.
type Gradient struct {
	ID     string          `json:"id"`
	NodeID string          `json:"node_id"`
	Status topology.Status `json:"status"`
	Stops  []Stop          `json:"stops"`
}

// EdgeShape is a directed segment from source to target.
type EdgeShape struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Status topology.Status `json:"status"`
	X1     float64         `json:"x1"`
	Y1     float64         `json:"y1"`
	X2     float64         `json:"x2"`
	Y2     float64         `json:"y2"`
	Stroke string          `json:"stroke"`
	Width  float64         `json:"width"`
	Marker string          `json:"marker"`
}

// NodeShape is a disc with an icon and a label, centered on (X, Y).
type NodeShape struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Category    sim.Category    `json:"category"`
	Status      topology.Status `json:"status"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	R           float64         `json:"r"`
	Gradient    string          `json:"gradient"`
	Stroke      string          `json:"stroke"`
	StrokeWidth float64         `json:"stroke_width"`
	Icon        string          `json:"icon,omitempty"`
	LabelDY     float64         `json:"label_dy"`
	Pinned      bool            `json:"pinned,omitempty"`
}

// Scene is one drawable frame.
type Scene struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Generation string      `json:"generation,omitempty"`
	Tick       int         `json:"tick"`
	Alpha      float64     `json:"alpha"`
	Running    bool        `json:"running"`
	Transform  Transform   `json:"transform"`
	Markers    []Marker    `json:"markers"`
	Gradients  []Gradient  `json:"gradients"`
	Edges      []EdgeShape `json:"edges"`
	Nodes      []NodeShape `json:"nodes"`
}

// Empty reports whether the scene has no nodes.
func (s *Scene) Empty() bool { return len(s.Nodes) == 0 }

// Gradient returns the gradient with the given id.
func (s *Scene) Gradient(id string) (Gradient, bool) {
	for _, g := range s.Gradients {
		if g.ID == id {
			return g, true
		}
	}
	return Gradient{}, false
}

// Marker returns the marker with the given id.
func (s *Scene) Marker(id string) (Marker, bool) {
	for _, m := range s.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}
