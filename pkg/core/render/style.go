package render

import (
	"math"

	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Status colors.
const (
	ColorActive  = "#22c55e"
	ColorWarning = "#eab308"
	ColorError   = "#ef4444"
	ColorNeutral = "#94a3b8"
)

// Geometry of node and edge decorations.
const (
	NodeRadius      = 25
	NodeStrokeWidth = 2
	LabelOffset     = 35
	IconOffset      = -10

	MinEdgeWidth = 1
	MaxEdgeWidth = 5

	MarkerRefX    = 25
	MarkerSize    = 6
	MarkerPath    = "M0,-5L10,0L0,5"
	MarkerViewBox = "0 -5 10 10"

	GradientInner = 0.7
	GradientOuter = 0.3
)

// StatusColor maps a status onto its color. Unknown statuses are neutral.
func StatusColor(s topology.Status) string {
	switch s {
	case topology.StatusActive:
		return ColorActive
	case topology.StatusWarning:
		return ColorWarning
	case topology.StatusError:
		return ColorError
	}
	return ColorNeutral
}

// MarkerStatuses lists the statuses that get their own arrow marker.
var MarkerStatuses = []topology.Status{
	topology.StatusActive,
	topology.StatusWarning,
	topology.StatusError,
	topology.StatusIdle,
}

// MarkerID returns the arrow marker id for an edge status. Unknown statuses
// use the idle marker, which shares the neutral color.
func MarkerID(s topology.Status) string {
	switch s {
	case topology.StatusActive, topology.StatusWarning, topology.StatusError:
		return "arrow-" + string(s)
	}
	return "arrow-" + string(topology.StatusIdle)
}

// GradientID returns the gradient id for a node id.
func GradientID(nodeID string) string {
	return "gradient-" + nodeID
}

// StrokeWidth maps bandwidth in Mbps onto an edge width in [1, 5].
// Non-positive and NaN bandwidths get the minimum width.
func StrokeWidth(bandwidth float64) float64 {
	if !(bandwidth > 0) {
		return MinEdgeWidth
	}
	w := math.Log(bandwidth) / 2
	return math.Max(MinEdgeWidth, math.Min(MaxEdgeWidth, w))
}

// Icon paths are drawn in a 24x24 box centered on the node.
var icons = map[sim.Category]string{
	sim.CategoryCloudService: "M3,13 L3,12 C3,9.23858 5.23858,7 8,7 C10.7614,7 13,9.23858 13,12 L13,13 L14,13 " +
		"C15.6569,13 17,14.3431 17,16 C17,17.6569 15.6569,19 14,19 L6,19 C4.34315,19 3,17.6569 3,16 L3,13 Z",
	sim.CategorySwitch: "M4,7 L20,7 L20,17 L4,17 L4,7 Z M6,9 L6,15 L18,15 L18,9 L6,9 Z",
	sim.CategoryServer: "M4,4 L20,4 L20,20 L4,20 L4,4 Z M6,6 L6,18 L18,18 L18,6 L6,6 Z " +
		"M8,8 L16,8 L16,10 L8,10 L8,8 Z M8,12 L16,12 L16,14 L8,14 L8,12 Z",
	sim.CategoryEndpoint: "M4,4 L20,4 L20,16 L4,16 L4,4 Z M6,6 L6,14 L18,14 L18,6 L6,6 Z M8,17 L16,17 L16,20 L8,20 L8,17 Z",
}

// IconPath returns the SVG path of a category glyph, or "" for unknown
// categories.
func IconPath(c sim.Category) string {
	return icons[c]
}
