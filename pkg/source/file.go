package source

import (
	"context"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// File reads a local json, yaml or toml file.
type File struct {
	Path string
}

// NewFile returns a file source.
func NewFile(path string) *File { return &File{Path: path} }

// Load reads and validates the file.
func (f *File) Load(ctx context.Context) (*topology.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return topology.ReadFile(f.Path)
}

func (f *File) String() string { return "file " + f.Path }
