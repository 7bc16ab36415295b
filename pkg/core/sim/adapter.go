package sim

import (
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Adapt copies records into a fresh arena.
//
// Records that cannot take part in the layout are skipped and reported in
// the returned diagnostics:
//   - nodes with an empty id (ErrCodeInvalidInput)
//   - nodes whose id was already seen; the first one wins (ErrCodeDuplicateID)
//   - edges whose source or target has no node (ErrCodeInvalidReference)
//
// Diagnostics never make the graph unusable. A nil topology yields an empty
// graph.
func Adapt(t *topology.Topology) (*Graph, []*errors.Error) {
	g := &Graph{index: make(map[string]int, t.NodeCount())}
	if t == nil {
		return g, nil
	}

	var diags []*errors.Error
	g.Nodes = make([]Node, 0, len(t.Nodes))
	for i, rec := range t.Nodes {
		if rec.ID == "" {
			diags = append(diags, errors.New(errors.ErrCodeInvalidInput, "node %d: empty id", i))
			continue
		}
		if _, dup := g.index[rec.ID]; dup {
			diags = append(diags, errors.New(errors.ErrCodeDuplicateID, "node %d: duplicate id %q", i, rec.ID))
			continue
		}
		g.index[rec.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:       rec.ID,
			Name:     rec.Name,
			Category: CategoryOf(rec.Type),
			Status:   rec.Status,
			Degree:   rec.Connections,
		})
	}

	g.Edges = make([]Edge, 0, len(t.Edges))
	for i, rec := range t.Edges {
		src, okSrc := g.index[rec.Source]
		dst, okDst := g.index[rec.Target]
		switch {
		case !okSrc && !okDst:
			diags = append(diags, errors.New(errors.ErrCodeInvalidReference,
				"edge %d: unknown source %q and target %q", i, rec.Source, rec.Target))
			continue
		case !okSrc:
			diags = append(diags, errors.New(errors.ErrCodeInvalidReference,
				"edge %d: unknown source %q", i, rec.Source))
			continue
		case !okDst:
			diags = append(diags, errors.New(errors.ErrCodeInvalidReference,
				"edge %d: unknown target %q", i, rec.Target))
			continue
		}
		g.Edges = append(g.Edges, Edge{
			Source:    src,
			Target:    dst,
			Status:    rec.Status,
			Bandwidth: rec.Bandwidth,
		})
	}

	return g, diags
}
