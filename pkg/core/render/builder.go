package render

import (
	"sync"

	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Option configures a Builder.
type Option func(*Builder)

// WithNodeRadius sets the disc radius of every node.
func WithNodeRadius(r float64) Option {
	return func(b *Builder) {
		if r > 0 {
			b.nodeRadius = r
		}
	}
}

// WithLabelOffset sets the vertical label offset from the node center.
func WithLabelOffset(dy float64) Option {
	return func(b *Builder) { b.labelDY = dy }
}

// WithoutIcons omits category glyphs.
func WithoutIcons() Option {
	return func(b *Builder) { b.icons = false }
}

type gradientEntry struct {
	status   topology.Status
	gradient Gradient
}

// Builder produces scenes from snapshots. It keeps a gradient cache across
// frames and is safe for concurrent use.
type Builder struct {
	nodeRadius float64
	labelDY    float64
	icons      bool

	mu        sync.Mutex
	gradients map[string]gradientEntry
	hits      int
	misses    int
}

// NewBuilder returns a Builder with default geometry.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		nodeRadius: NodeRadius,
		labelDY:    LabelOffset,
		icons:      true,
		gradients:  make(map[string]gradientEntry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns a snapshot into a scene. It never blocks on I/O.
func (b *Builder) Build(snap sim.Snapshot, view Transform) *Scene {
	if view.K == 0 {
		view = Identity
	}
	sc := &Scene{
		Width:     snap.Width,
		Height:    snap.Height,
		Tick:      snap.Tick,
		Alpha:     snap.Alpha,
		Running:   snap.Running,
		Transform: view,
		Markers:   markers(),
		Gradients: make([]Gradient, 0, len(snap.Nodes)),
		Edges:     make([]EdgeShape, 0, len(snap.Edges)),
		Nodes:     make([]NodeShape, 0, len(snap.Nodes)),
	}

	for _, e := range snap.Edges {
		sc.Edges = append(sc.Edges, EdgeShape{
			Source: e.Source,
			Target: e.Target,
			Status: e.Status,
			X1:     e.X1,
			Y1:     e.Y1,
			X2:     e.X2,
			Y2:     e.Y2,
			Stroke: StatusColor(e.Status),
			Width:  StrokeWidth(e.Bandwidth),
			Marker: MarkerID(e.Status),
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range snap.Nodes {
		g := b.gradient(n.ID, n.Status)
		sc.Gradients = append(sc.Gradients, g)

		label := n.Name
		if label == "" {
			label = n.ID
		}
		shape := NodeShape{
			ID:          n.ID,
			Label:       label,
			Category:    n.Category,
			Status:      n.Status,
			X:           n.X,
			Y:           n.Y,
			R:           b.nodeRadius,
			Gradient:    g.ID,
			Stroke:      StatusColor(n.Status),
			StrokeWidth: NodeStrokeWidth,
			LabelDY:     b.labelDY,
			Pinned:      n.Pinned,
		}
		if b.icons {
			shape.Icon = IconPath(n.Category)
		}
		sc.Nodes = append(sc.Nodes, shape)
	}
	return sc
}

// gradient returns the cached gradient for a node, rebuilding it when the
// status changed. Callers hold b.mu.
func (b *Builder) gradient(id string, status topology.Status) Gradient {
	if e, ok := b.gradients[id]; ok && e.status == status {
		b.hits++
		return e.gradient
	}
	b.misses++
	c := StatusColor(status)
	g := Gradient{
		ID:     GradientID(id),
		NodeID: id,
		Status: status,
		Stops: []Stop{
			{Offset: 0, Color: c, Opacity: GradientInner},
			{Offset: 1, Color: c, Opacity: GradientOuter},
		},
	}
	b.gradients[id] = gradientEntry{status: status, gradient: g}
	return g
}

// Reset empties the gradient cache. Call it when the graph is replaced.
func (b *Builder) Reset() {
	b.mu.Lock()
	clear(b.gradients)
	b.hits, b.misses = 0, 0
	b.mu.Unlock()
}

// CacheStats returns gradient cache hits and misses since the last Reset.
func (b *Builder) CacheStats() (hits, misses int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits, b.misses
}

func markers() []Marker {
	out := make([]Marker, 0, len(MarkerStatuses))
	for _, s := range MarkerStatuses {
		out = append(out, Marker{
			ID:      MarkerID(s),
			Color:   StatusColor(s),
			RefX:    MarkerRefX,
			Size:    MarkerSize,
			ViewBox: MarkerViewBox,
			Path:    MarkerPath,
		})
	}
	return out
}
