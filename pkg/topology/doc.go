// Package topology defines the external node and connection records that feed
// the visualizer, plus reading and writing them as JSON, YAML or TOML.
//
// A [Topology] is plain data: it carries no positions and is never mutated by
// the simulation. The simulation copies it into its own arena (see
// [github.com/matzehuels/topoviz/pkg/core/sim]).
//
// # File Formats
//
// The format is chosen by file extension:
//
//	.json         {"nodes": [...], "edges": [...]}
//	.yaml, .yml   nodes: / edges: sequences
//	.toml         [[nodes]] / [[edges]] tables
//
// # Validation
//
// [Validate] checks structural requirements (non-empty identifiers,
// non-negative connection counts). Unknown types and statuses are accepted:
// the renderer falls back to neutral styling for them.
package topology
