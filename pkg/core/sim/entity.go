package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// Category is the normalized device class of a node.
type Category string

// Node categories.
const (
	CategoryServer       Category = "server"
	CategoryCloudService Category = "cloud-service"
	CategorySwitch       Category = "switch"
	CategoryEndpoint     Category = "endpoint"
	CategoryUnknown      Category = "unknown"
)

// CategoryOf maps a record type onto a category.
func CategoryOf(t topology.NodeType) Category {
	switch t {
	case topology.TypeServer:
		return CategoryServer
	case topology.TypeCloud:
		return CategoryCloudService
	case topology.TypeSwitch:
		return CategorySwitch
	case topology.TypePC:
		return CategoryEndpoint
	}
	return CategoryUnknown
}

// Node is a simulation entity. Pos and Vel are written only by the
// simulation that owns the graph.
type Node struct {
	ID       string
	Name     string
	Category Category
	Status   topology.Status
	Degree   int

	Pos r2.Vec
	Vel r2.Vec
}

// Edge connects two nodes of the same graph by arena index.
type Edge struct {
	Source    int
	Target    int
	Status    topology.Status
	Bandwidth float64
}

// Graph is the node arena plus the resolved edges.
type Graph struct {
	Nodes []Node
	Edges []Edge

	index map[string]int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of resolved edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Index returns the arena index of the node with the given id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}
