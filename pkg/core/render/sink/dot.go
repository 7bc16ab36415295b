package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/errors"
)

// points per inch, the unit of Graphviz node sizes
const dotPPI = 72

// ToDOT converts a scene to Graphviz DOT. Node positions are pinned with
// "!" so neato keeps the simulated layout; y is flipped because Graphviz
// grows upwards.
func ToDOT(sc *render.Scene) string {
	_, height := canvasSize(sc)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontcolor=white];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range sc.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", width=%.3f, color=%q, fillcolor=%q, penwidth=%.0f];\n",
			n.ID, n.Label, n.X, height-n.Y, 2*n.R/dotPPI, n.Stroke, fillColor(sc, n), n.StrokeWidth)
	}

	buf.WriteString("\n")
	for _, e := range sc.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%.2f];\n", e.Source, e.Target, e.Stroke, e.Width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fillColor flattens a node gradient to its inner stop with alpha, the
// closest DOT equivalent.
func fillColor(sc *render.Scene, n render.NodeShape) string {
	if g, ok := sc.Gradient(n.Gradient); ok && len(g.Stops) > 0 {
		return fmt.Sprintf("%s%02x", g.Stops[0].Color, int(g.Stops[0].Opacity*255))
	}
	return n.Stroke
}

// RenderGraphviz lays out a DOT graph with neato and renders it to SVG.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graphviz")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which carries pt
// units, with a pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
