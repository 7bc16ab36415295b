package source

import (
	"context"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// Sample serves the built-in demo topology.
type Sample struct{}

// Load returns a new copy of the demo topology.
func (Sample) Load(context.Context) (*topology.Topology, error) {
	return topology.Sample(), nil
}

func (Sample) String() string { return "sample topology" }
