package sim

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// randomTopology builds n nodes and roughly 1.5n edges from seed, including
// self loops and duplicate edges.
func randomTopology(n int, seed uint64) *topology.Topology {
	topo := &topology.Topology{}
	for i := 0; i < n; i++ {
		topo.Nodes = append(topo.Nodes, topology.Node{ID: fmt.Sprint(i)})
	}
	if n == 0 {
		return topo
	}
	x := seed | 1
	for i := 0; i < n+n/2; i++ {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		topo.Edges = append(topo.Edges, topology.Edge{
			Source: fmt.Sprint(x % uint64(n)),
			Target: fmt.Sprint((x >> 32) % uint64(n)),
		})
	}
	return topo
}

func TestCoolingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("alpha never increases while alphaTarget is 0", prop.ForAll(
		func(n int, seed uint64) bool {
			g, _ := Adapt(randomTopology(n, seed))
			s := New(g, Options{Width: 640, Height: 480, Seed: seed})
			prev := s.Alpha()
			for i := 0; i < 400; i++ {
				s.Tick()
				if s.Alpha() > prev {
					return false
				}
				prev = s.Alpha()
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.UInt64(),
	))

	properties.Property("small graphs converge within 300 ticks", prop.ForAll(
		func(n int, seed uint64) bool {
			g, _ := Adapt(randomTopology(n, seed))
			s := New(g, Options{Width: 640, Height: 480, Seed: seed})
			for i := 0; i < 300 && s.Step(); i++ {
			}
			return !s.Running()
		},
		gen.IntRange(1, 20),
		gen.UInt64(),
	))

	properties.Property("positions stay finite", prop.ForAll(
		func(n int, seed uint64) bool {
			g, _ := Adapt(randomTopology(n, seed))
			s := New(g, Options{Width: 640, Height: 480, Seed: seed})
			for s.Step() {
			}
			for i := 0; i < s.NodeCount(); i++ {
				if !finite(s.Position(i)) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
