// Package render turns simulation snapshots into drawable scenes.
//
// A [Scene] is a flat, surface-independent description of one frame: arrow
// markers, per-node radial gradients, edge segments and node discs with
// icons and labels, all in layout coordinates plus the viewport [Transform]
// to apply on top. Surfaces in [github.com/matzehuels/topoviz/pkg/core/render/sink]
// draw scenes as SVG, PNG, DOT or terminal cells.
//
// # Styling
//
// Status colors are a total function: active is green, warning amber, error
// red, and idle, inactive or anything else neutral gray. Edge width grows
// with the log of bandwidth:
//
//	width = clamp(1, 5, ln(bandwidth)/2)
//
// # Gradients
//
// Each node gets its own gradient, keyed by node id, so overlapping nodes
// never share gradient state. A [Builder] caches gradients by id and status
// and only rebuilds one when the node's status changes.
package render
