package sink

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/errors"
)

// PNGOption configures raster output.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale multiplies the output resolution. 2 suits high-DPI displays.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 && !math.IsInf(s, 0) {
			r.scale = s
		}
	}
}

// WithFill sets the raster background color. The default is transparent.
func WithFill(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// RenderPNG rasterizes a scene.
func RenderPNG(sc *render.Scene, opts ...PNGOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, sc, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG rasterizes a scene and encodes it to w.
func WritePNG(w io.Writer, sc *render.Scene, opts ...PNGOption) error {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := canvasSize(sc)
	dc := gg.NewContext(int(math.Ceil(width*r.scale)), int(math.Ceil(height*r.scale)))
	if r.background != "" {
		dc.SetColor(parseHex(r.background, 1))
		dc.Clear()
	}

	dc.Scale(r.scale, r.scale)
	dc.Translate(sc.Transform.X, sc.Transform.Y)
	dc.Scale(sc.Transform.K, sc.Transform.K)

	for _, e := range sc.Edges {
		c := parseHex(e.Stroke, 1)
		dc.SetColor(c)
		dc.SetLineWidth(e.Width)
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
		drawArrow(dc, e, c)
	}

	icons := make(map[string][]render.PathCmd)
	for _, n := range sc.Nodes {
		drawDisc(dc, sc, n)

		if n.Icon != "" {
			cmds, ok := icons[n.Icon]
			if !ok {
				var err error
				if cmds, err = render.ParsePath(n.Icon); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidFormat, err, "icon for node %q", n.ID)
				}
				icons[n.Icon] = cmds
			}
			drawIcon(dc, n, cmds)
		}

		dc.SetColor(parseHex(labelColor, 1))
		dc.DrawStringAnchored(n.Label, n.X, n.Y+n.LabelDY, 0.5, 0.5)
	}

	return dc.EncodePNG(w)
}

// drawArrow draws the marker triangle the way an SVG viewer would place it:
// marker units scale with the stroke width and refX sits on the line end.
func drawArrow(dc *gg.Context, e render.EdgeShape, c color.Color) {
	dx, dy := e.X2-e.X1, e.Y2-e.Y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l, dy/l
	unit := float64(render.MarkerSize) / 10 * e.Width
	tip := (10 - render.MarkerRefX) * unit
	base := (0 - render.MarkerRefX) * unit
	half := 5 * unit

	dc.SetColor(c)
	dc.MoveTo(e.X2+ux*tip, e.Y2+uy*tip)
	dc.LineTo(e.X2+ux*base-uy*half, e.Y2+uy*base+ux*half)
	dc.LineTo(e.X2+ux*base+uy*half, e.Y2+uy*base-ux*half)
	dc.ClosePath()
	dc.Fill()
}

func drawDisc(dc *gg.Context, sc *render.Scene, n render.NodeShape) {
	// gg evaluates gradients in device space.
	cx, cy := dc.TransformPoint(n.X, n.Y)
	ex, ey := dc.TransformPoint(n.X+n.R, n.Y)
	dr := math.Hypot(ex-cx, ey-cy)

	dc.DrawCircle(n.X, n.Y, n.R)
	if g, ok := sc.Gradient(n.Gradient); ok && len(g.Stops) > 0 {
		grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, dr)
		for _, s := range g.Stops {
			grad.AddColorStop(s.Offset, parseHex(s.Color, s.Opacity))
		}
		dc.SetFillStyle(grad)
	} else {
		dc.SetColor(parseHex(n.Stroke, render.GradientOuter))
	}
	dc.FillPreserve()
	dc.SetColor(parseHex(n.Stroke, 1))
	dc.SetLineWidth(n.StrokeWidth)
	dc.Stroke()
}

func drawIcon(dc *gg.Context, n render.NodeShape, cmds []render.PathCmd) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(n.X+render.IconOffset, n.Y+render.IconOffset)
	for _, c := range cmds {
		switch c.Op {
		case render.OpMove:
			dc.MoveTo(c.Args[0], c.Args[1])
		case render.OpLine:
			dc.LineTo(c.Args[0], c.Args[1])
		case render.OpCubic:
			dc.CubicTo(c.Args[0], c.Args[1], c.Args[2], c.Args[3], c.Args[4], c.Args[5])
		case render.OpClose:
			dc.ClosePath()
		}
	}
	dc.SetFillRuleEvenOdd()
	dc.SetColor(color.White)
	dc.Fill()
	dc.SetFillRuleWinding()
}

// parseHex parses #rgb or #rrggbb. Anything else is neutral gray.
func parseHex(s string, opacity float64) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return parseHex(render.ColorNeutral, opacity)
	}
	a := math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(math.Round(a * 255))}
}
