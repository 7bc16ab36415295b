package topology

// NodeType is the device category of a node as supplied by the dashboard.
type NodeType string

// Known node types.
const (
	TypeServer NodeType = "server"
	TypeCloud  NodeType = "cloud"
	TypeSwitch NodeType = "switch"
	TypePC     NodeType = "pc"
)

// Status is the health of a node or connection.
//
// Nodes report active, inactive or warning; connections report active,
// warning, error or idle. Any other value is carried through unchanged.
type Status string

// Known statuses.
const (
	StatusActive   Status = "active"
	StatusWarning  Status = "warning"
	StatusError    Status = "error"
	StatusIdle     Status = "idle"
	StatusInactive Status = "inactive"
)

// Node is one device record.
type Node struct {
	ID          string   `json:"id" yaml:"id" toml:"id" bson:"id"`
	Name        string   `json:"name" yaml:"name" toml:"name" bson:"name"`
	Type        NodeType `json:"type" yaml:"type" toml:"type" bson:"type"`
	Status      Status   `json:"status" yaml:"status" toml:"status" bson:"status"`
	Connections int      `json:"connections" yaml:"connections" toml:"connections" bson:"connections" validate:"gte=0"`
}

// Edge is one directed connection record. Bandwidth is in Mbps.
type Edge struct {
	Source    string  `json:"source" yaml:"source" toml:"source" bson:"source"`
	Target    string  `json:"target" yaml:"target" toml:"target" bson:"target"`
	Status    Status  `json:"status" yaml:"status" toml:"status" bson:"status"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth" toml:"bandwidth" bson:"bandwidth"`
}

// Topology is a node list plus a connection list.
//
// The visualizer treats a *Topology as an identity: handing it the same
// pointer again is a no-op, handing it a different one rebuilds the
// simulation. Callers should not mutate a Topology after passing it on.
type Topology struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges" validate:"dive"`
}

// New returns a Topology holding copies of nodes and edges.
func New(nodes []Node, edges []Edge) *Topology {
	return &Topology{
		Nodes: append([]Node(nil), nodes...),
		Edges: append([]Edge(nil), edges...),
	}
}

// NodeCount returns the number of node records.
func (t *Topology) NodeCount() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// EdgeCount returns the number of edge records.
func (t *Topology) EdgeCount() int {
	if t == nil {
		return 0
	}
	return len(t.Edges)
}

// Empty reports whether the topology has no nodes.
func (t *Topology) Empty() bool {
	return t.NodeCount() == 0
}
