package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/topoviz/pkg/core/render"
)

// Glyphs used by the terminal raster.
const (
	NodeGlyph   = '●'
	PinnedGlyph = '◆'
	EdgeGlyph   = '·'
)

type cell struct {
	ch    rune
	color string
}

// Grid is a character raster of a scene. Each cell covers
// CellWidth x CellHeight screen pixels.
type Grid struct {
	Cols, Rows            int
	CellWidth, CellHeight float64
	cells                 [][]cell
}

// Rasterize maps a scene onto a cols x rows grid. Edges are drawn first,
// then labels, then node glyphs so nodes are never hidden.
func Rasterize(sc *render.Scene, cols, rows int) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	width, height := canvasSize(sc)
	g := &Grid{
		Cols:       cols,
		Rows:       rows,
		CellWidth:  width / float64(cols),
		CellHeight: height / float64(rows),
		cells:      make([][]cell, rows),
	}
	for r := range g.cells {
		g.cells[r] = make([]cell, cols)
		for c := range g.cells[r] {
			g.cells[r][c].ch = ' '
		}
	}

	t := sc.Transform
	for _, e := range sc.Edges {
		x0, y0, x1, y1, ok := g.clip(t.K*e.X1+t.X, t.K*e.Y1+t.Y, t.K*e.X2+t.X, t.K*e.Y2+t.Y)
		if !ok {
			continue
		}
		c0, r0 := g.innerCell(x0, y0)
		c1, r1 := g.innerCell(x1, y1)
		g.line(c0, r0, c1, r1, cell{ch: EdgeGlyph, color: e.Stroke})
	}
	for _, n := range sc.Nodes {
		c, r := g.cellOf(t.K*n.X+t.X, t.K*n.Y+t.Y)
		for i, ch := range []rune(n.Label) {
			g.set(c+2+i, r, cell{ch: ch, color: labelColor})
		}
	}
	for _, n := range sc.Nodes {
		c, r := g.cellOf(t.K*n.X+t.X, t.K*n.Y+t.Y)
		glyph := NodeGlyph
		if n.Pinned {
			glyph = PinnedGlyph
		}
		g.set(c, r, cell{ch: glyph, color: n.Stroke})
	}
	return g
}

// ScreenPoint returns the screen pixel at the center of a cell, which is
// how terminal hosts turn mouse positions into pointer coordinates.
func (g *Grid) ScreenPoint(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * g.CellWidth, (float64(row) + 0.5) * g.CellHeight
}

// Rune returns the glyph at a cell, or ' ' outside the grid.
func (g *Grid) Rune(col, row int) rune {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return ' '
	}
	return g.cells[row][col].ch
}

// String renders the grid with lipgloss colors, one line per row.
// Runs of equally colored cells share one style.
func (g *Grid) String() string {
	var b strings.Builder
	for r, row := range g.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < len(row); {
			end := c
			var run strings.Builder
			for end < len(row) && row[end].color == row[c].color {
				run.WriteRune(row[end].ch)
				end++
			}
			if row[c].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[c].color)).Render(run.String()))
			}
			c = end
		}
	}
	return b.String()
}

// RenderTerm rasterizes a scene and returns its colored text.
func RenderTerm(sc *render.Scene, cols, rows int) string {
	return Rasterize(sc, cols, rows).String()
}

func (g *Grid) cellOf(x, y float64) (int, int) {
	c := math.Floor(x / g.CellWidth)
	r := math.Floor(y / g.CellHeight)
	if math.IsNaN(c) || math.IsNaN(r) {
		return -1, -1
	}
	// Far-off nodes only need to land outside the grid.
	c = math.Max(-1, math.Min(float64(g.Cols), c))
	r = math.Max(-1, math.Min(float64(g.Rows), r))
	return int(c), int(r)
}

// innerCell maps a point on the canvas to its cell. Points on the far
// border fall into the last row or column.
func (g *Grid) innerCell(x, y float64) (int, int) {
	c := math.Max(0, math.Min(float64(g.Cols-1), math.Floor(x/g.CellWidth)))
	r := math.Max(0, math.Min(float64(g.Rows-1), math.Floor(y/g.CellHeight)))
	return int(c), int(r)
}

// clip trims the segment (x0,y0)-(x1,y1) to the canvas with the
// Liang-Barsky algorithm, keeping its slope. It reports false when the
// segment misses the canvas or has a non-finite end.
func (g *Grid) clip(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	if !finite(x0, y0, x1, y1) {
		return 0, 0, 0, 0, false
	}
	w, h := float64(g.Cols)*g.CellWidth, float64(g.Rows)*g.CellHeight
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, b := range [4][2]float64{{-dx, x0}, {dx, w - x0}, {-dy, y0}, {dy, h - y0}} {
		p, q := b[0], b[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g *Grid) set(col, row int, v cell) {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return
	}
	g.cells[row][col] = v
}

// line walks a Bresenham line between two cells.
func (g *Grid) line(c0, r0, c1, r1 int, v cell) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		g.set(c0, r0, v)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
