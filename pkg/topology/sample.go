package topology

// Sample returns the demo network served by the dashboard backend: a cloud
// uplink, a core switch and four hosts. One connection reports zero
// bandwidth.
func Sample() *Topology {
	return &Topology{
		Nodes: []Node{
			{ID: "1", Name: "AWS Cloud", Type: TypeCloud, Status: StatusActive, Connections: 3},
			{ID: "2", Name: "Core Switch", Type: TypeSwitch, Status: StatusActive, Connections: 5},
			{ID: "3", Name: "Web Server", Type: TypeServer, Status: StatusActive, Connections: 2},
			{ID: "4", Name: "DB Server", Type: TypeServer, Status: StatusWarning, Connections: 1},
			{ID: "5", Name: "Dev PC", Type: TypePC, Status: StatusActive, Connections: 2},
			{ID: "6", Name: "Admin PC", Type: TypePC, Status: StatusActive, Connections: 2},
		},
		Edges: []Edge{
			{Source: "1", Target: "2", Status: StatusActive, Bandwidth: 1000},
			{Source: "2", Target: "3", Status: StatusActive, Bandwidth: 1000},
			{Source: "2", Target: "4", Status: StatusError, Bandwidth: 0},
			{Source: "2", Target: "5", Status: StatusActive, Bandwidth: 100},
			{Source: "2", Target: "6", Status: StatusActive, Bandwidth: 100},
		},
	}
}
