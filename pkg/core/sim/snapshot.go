package sim

import "github.com/matzehuels/topoviz/pkg/topology"

// NodeState is a read-only copy of one node.
type NodeState struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Status   topology.Status `json:"status"`
	Degree   int             `json:"degree"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	VX       float64         `json:"vx"`
	VY       float64         `json:"vy"`
	Pinned   bool            `json:"pinned,omitempty"`
}

// EdgeState is a read-only copy of one resolved edge with its endpoint
// coordinates.
type EdgeState struct {
	Source    string          `json:"source"`
	Target    string          `json:"target"`
	Status    topology.Status `json:"status"`
	Bandwidth float64         `json:"bandwidth"`
	X1        float64         `json:"x1"`
	Y1        float64         `json:"y1"`
	X2        float64         `json:"x2"`
	Y2        float64         `json:"y2"`
}

// Snapshot is the state of a simulation between ticks. It shares no memory
// with the simulation.
type Snapshot struct {
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Alpha       float64     `json:"alpha"`
	AlphaTarget float64     `json:"alpha_target"`
	Tick        int         `json:"tick"`
	Running     bool        `json:"running"`
	Nodes       []NodeState `json:"nodes"`
	Edges       []EdgeState `json:"edges"`
}

// Snapshot copies the current state out of the simulation.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Width:       s.width,
		Height:      s.height,
		Alpha:       s.alpha,
		AlphaTarget: s.alphaTarget,
		Tick:        s.ticks,
		Running:     s.running,
		Nodes:       make([]NodeState, len(s.graph.Nodes)),
		Edges:       make([]EdgeState, len(s.graph.Edges)),
	}
	for i, n := range s.graph.Nodes {
		snap.Nodes[i] = NodeState{
			ID:       n.ID,
			Name:     n.Name,
			Category: n.Category,
			Status:   n.Status,
			Degree:   n.Degree,
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			VX:       n.Vel.X,
			VY:       n.Vel.Y,
			Pinned:   s.isPinned(i),
		}
	}
	for i, e := range s.graph.Edges {
		src, dst := s.graph.Nodes[e.Source], s.graph.Nodes[e.Target]
		snap.Edges[i] = EdgeState{
			Source:    src.ID,
			Target:    dst.ID,
			Status:    e.Status,
			Bandwidth: e.Bandwidth,
			X1:        src.Pos.X,
			Y1:        src.Pos.Y,
			X2:        dst.Pos.X,
			Y2:        dst.Pos.Y,
		}
	}
	return snap
}

func (s *Simulation) isPinned(i int) bool {
	if s.pins == nil {
		return false
	}
	_, ok := s.pins.Pin(i)
	return ok
}
