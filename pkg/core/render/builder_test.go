package render

import (
	"testing"

	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/topology"
)

func sampleSnapshot(t *testing.T) sim.Snapshot {
	t.Helper()
	g, _ := sim.Adapt(topology.Sample())
	return sim.New(g, sim.Options{Width: 800, Height: 600}).Snapshot()
}

func TestBuildSample(t *testing.T) {
	snap := sampleSnapshot(t)
	sc := NewBuilder().Build(snap, Transform{K: 1.5, X: 10, Y: 20})

	if sc.Width != 800 || sc.Height != 600 {
		t.Errorf("size = %vx%v, want 800x600", sc.Width, sc.Height)
	}
	if sc.Transform.K != 1.5 {
		t.Errorf("Transform.K = %v, want 1.5", sc.Transform.K)
	}
	if len(sc.Markers) != 4 {
		t.Errorf("len(Markers) = %d, want 4", len(sc.Markers))
	}
	if len(sc.Nodes) != 6 || len(sc.Edges) != 5 || len(sc.Gradients) != 6 {
		t.Fatalf("shapes = %d nodes, %d edges, %d gradients", len(sc.Nodes), len(sc.Edges), len(sc.Gradients))
	}

	// Edge 2->4 is an error link with zero bandwidth.
	e := sc.Edges[2]
	if e.Stroke != ColorError || e.Marker != "arrow-error" || e.Width != 1 {
		t.Errorf("error edge = %+v", e)
	}
	m, ok := sc.Marker(e.Marker)
	if !ok || m.Color != ColorError {
		t.Errorf("marker %q = %+v, %v", e.Marker, m, ok)
	}

	// Node 4 is a warning server.
	n := sc.Nodes[3]
	if n.Stroke != ColorWarning || n.Gradient != "gradient-4" || n.Icon != IconPath(sim.CategoryServer) {
		t.Errorf("warning node = %+v", n)
	}
	if n.R != NodeRadius || n.LabelDY != LabelOffset || n.Label != "DB Server" {
		t.Errorf("node geometry = r %v, dy %v, label %q", n.R, n.LabelDY, n.Label)
	}
	g, ok := sc.Gradient(n.Gradient)
	if !ok || len(g.Stops) != 2 {
		t.Fatalf("gradient %q = %+v, %v", n.Gradient, g, ok)
	}
	if g.Stops[0].Opacity != 0.7 || g.Stops[1].Opacity != 0.3 || g.Stops[0].Color != ColorWarning {
		t.Errorf("gradient stops = %+v", g.Stops)
	}
	if n.X != snap.Nodes[3].X || n.Y != snap.Nodes[3].Y {
		t.Error("node shapes should stay in layout coordinates")
	}
}

func TestBuildEmpty(t *testing.T) {
	sc := NewBuilder().Build(sim.Snapshot{Width: 320, Height: 200}, Transform{})
	if !sc.Empty() || len(sc.Edges) != 0 {
		t.Errorf("scene = %d nodes, %d edges, want empty", len(sc.Nodes), len(sc.Edges))
	}
	if sc.Transform != Identity {
		t.Errorf("zero transform should become identity, got %+v", sc.Transform)
	}
}

func TestGradientCache(t *testing.T) {
	b := NewBuilder()
	snap := sampleSnapshot(t)

	b.Build(snap, Identity)
	b.Build(snap, Identity)
	hits, misses := b.CacheStats()
	if misses != 6 || hits != 6 {
		t.Errorf("CacheStats() = %d hits, %d misses, want 6, 6", hits, misses)
	}

	snap.Nodes[0].Status = topology.StatusError
	sc := b.Build(snap, Identity)
	if _, misses = b.CacheStats(); misses != 7 {
		t.Errorf("status change should rebuild one gradient, misses = %d", misses)
	}
	if g, _ := sc.Gradient("gradient-1"); g.Stops[0].Color != ColorError {
		t.Errorf("rebuilt gradient color = %q, want %q", g.Stops[0].Color, ColorError)
	}

	b.Reset()
	if hits, misses := b.CacheStats(); hits != 0 || misses != 0 {
		t.Error("Reset should clear the cache counters")
	}
}

func TestBuilderOptions(t *testing.T) {
	sc := NewBuilder(WithNodeRadius(12), WithLabelOffset(20), WithoutIcons()).Build(sampleSnapshot(t), Identity)
	for _, n := range sc.Nodes {
		if n.R != 12 || n.LabelDY != 20 || n.Icon != "" {
			t.Fatalf("node %s = r %v, dy %v, icon %q", n.ID, n.R, n.LabelDY, n.Icon)
		}
	}
}

func TestLabelFallsBackToID(t *testing.T) {
	snap := sim.Snapshot{Nodes: []sim.NodeState{{ID: "n1"}}}
	if got := NewBuilder().Build(snap, Identity).Nodes[0].Label; got != "n1" {
		t.Errorf("Label = %q, want n1", got)
	}
}
