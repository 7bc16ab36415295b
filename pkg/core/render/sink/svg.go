package sink

import (
	"bytes"
	"fmt"
	"html"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/topoviz/pkg/core/render"
)

// Fallback canvas size for scenes without dimensions.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

const (
	labelColor    = "#e2e8f0"
	labelFontSize = 12
	iconColor     = "white"
)

// SVGOption configures SVG output.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	fontSize   float64
}

// WithBackground fills the canvas with a color before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithFontSize sets the label font size in pixels.
func WithFontSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.fontSize = px
		}
	}
}

// RenderSVG draws a scene as a standalone SVG document.
func RenderSVG(sc *render.Scene, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, sc, opts...)
	return buf.Bytes()
}

// WriteSVG streams a scene as SVG to w.
func WriteSVG(w io.Writer, sc *render.Scene, opts ...SVGOption) {
	r := svgRenderer{fontSize: labelFontSize}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := canvasSize(sc)
	canvas := svg.New(w)
	canvas.Start(width, height)

	canvas.Def()
	for _, m := range sc.Markers {
		canvas.Marker(m.ID, m.RefX, 0, m.Size, m.Size, attr("viewBox", m.ViewBox), `orient="auto"`)
		canvas.Path(m.Path, attr("fill", m.Color))
		canvas.MarkerEnd()
	}
	for _, g := range sc.Gradients {
		canvas.RadialGradient(html.EscapeString(g.ID), 50, 50, 50, 50, 50, offcolors(g.Stops))
	}
	canvas.DefEnd()

	if r.background != "" {
		canvas.Rect(0, 0, width, height, attr("fill", r.background))
	}

	canvas.Gtransform(sc.Transform.String())

	canvas.Group(`class="links"`)
	for _, e := range sc.Edges {
		canvas.Line(e.X1, e.Y1, e.X2, e.Y2,
			attr("stroke", e.Stroke),
			fmt.Sprintf(`stroke-width="%.2f"`, e.Width),
			attr("marker-end", "url(#"+e.Marker+")"),
			attr("data-source", e.Source),
			attr("data-target", e.Target),
		)
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for _, n := range sc.Nodes {
		group := []string{
			attr("id", "node-"+n.ID),
			fmt.Sprintf(`transform="translate(%.2f,%.2f)"`, n.X, n.Y),
		}
		if n.Pinned {
			group = append(group, `data-pinned="true"`)
		}
		canvas.Group(group...)
		canvas.Circle(0, 0, n.R,
			attr("fill", "url(#"+n.Gradient+")"),
			attr("stroke", n.Stroke),
			fmt.Sprintf(`stroke-width="%.0f"`, n.StrokeWidth),
		)
		if n.Icon != "" {
			canvas.Path(n.Icon,
				fmt.Sprintf(`transform="translate(%d,%d)"`, render.IconOffset, render.IconOffset),
				attr("fill", iconColor),
			)
		}
		canvas.Text(0, n.LabelDY, n.Label,
			`text-anchor="middle"`,
			attr("fill", labelColor),
			fmt.Sprintf(`font-size="%.0f"`, r.fontSize),
			`font-family="system-ui,sans-serif"`,
		)
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
}

func offcolors(stops []render.Stop) []svg.Offcolor {
	out := make([]svg.Offcolor, len(stops))
	for i, s := range stops {
		out[i] = svg.Offcolor{Offset: uint8(s.Offset * 100), Color: s.Color, Opacity: s.Opacity}
	}
	return out
}

// attr formats an escaped XML attribute. Node ids and labels come from
// user data.
func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func canvasSize(sc *render.Scene) (float64, float64) {
	w, h := sc.Width, sc.Height
	if !(w > 0) {
		w = DefaultWidth
	}
	if !(h > 0) {
		h = DefaultHeight
	}
	return w, h
}
