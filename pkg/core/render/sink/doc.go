// Package sink draws [render.Scene] values onto concrete surfaces.
//
// # Surfaces
//
//   - [RenderSVG]: vector output with arrow markers, per-node radial
//     gradients, icons and labels, wrapped in the viewport transform
//   - [RenderPNG]: raster output of the same scene
//   - [RenderJSON]: the scene itself, for browser hosts that draw it
//   - [ToDOT] and [RenderGraphviz]: a pinned-position DOT graph and its
//     Graphviz (neato) rendering
//   - [RenderTerm]: a coarse colored character raster for terminals
//
// All surfaces read the scene only and never touch simulation state, so a
// scene can be drawn by several sinks concurrently.
package sink
