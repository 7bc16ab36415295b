package topology

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/topoviz/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"net.json", FormatJSON, false},
		{"net.YAML", FormatYAML, false},
		{"dir/net.yml", FormatYAML, false},
		{"net.toml", FormatTOML, false},
		{"net.xml", "", true},
		{"net", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) code = %q, want %q", tt.path, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestReadYAML(t *testing.T) {
	doc := `
nodes:
  - id: "1"
    name: Edge Router
    type: switch
    status: active
    connections: 1
  - id: "2"
    name: Backup
    type: server
    status: inactive
edges:
  - source: "1"
    target: "2"
    status: idle
    bandwidth: 10
`
	got, err := Read(strings.NewReader(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := &Topology{
		Nodes: []Node{
			{ID: "1", Name: "Edge Router", Type: TypeSwitch, Status: StatusActive, Connections: 1},
			{ID: "2", Name: "Backup", Type: TypeServer, Status: StatusInactive},
		},
		Edges: []Edge{{Source: "1", Target: "2", Status: StatusIdle, Bandwidth: 10}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTOML(t *testing.T) {
	doc := `
[[nodes]]
id = "a"
name = "A"
type = "pc"

[[nodes]]
id = "b"
name = "B"
type = "cloud"

[[edges]]
source = "a"
target = "b"
bandwidth = 1000
`
	got, err := Read(strings.NewReader(doc), FormatTOML)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", got.NodeCount(), got.EdgeCount())
	}
	if got.Edges[0].Bandwidth != 1000 {
		t.Errorf("Bandwidth = %v, want 1000", got.Edges[0].Bandwidth)
	}
}

func TestReadRejectsNegativeConnections(t *testing.T) {
	_, err := Read(strings.NewReader(`{"nodes":[{"id":"1","connections":-1}]}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Read code = %q, want %q (err %v)", errors.GetCode(err), errors.ErrCodeInvalidInput, err)
	}
}

func TestReadKeepsIncompleteRecords(t *testing.T) {
	doc := `{
  "nodes": [{"id":"1"}, {"id":"2"}, {"name":"nameless"}],
  "edges": [{"source":"1","target":"2"}, {"source":"1","target":""}, {"source":"","target":"2"}]
}`
	got, err := Read(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.NodeCount() != 3 || got.EdgeCount() != 3 {
		t.Errorf("counts = %d/%d, want 3/3", got.NodeCount(), got.EdgeCount())
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(`{"nodes": [`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("Read code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestValidateAllowsUnknownStatus(t *testing.T) {
	topo := &Topology{
		Nodes: []Node{{ID: "x", Status: "degraded", Type: "router"}},
		Edges: []Edge{{Source: "x", Target: "99", Status: "flapping", Bandwidth: -3}},
	}
	if err := Validate(topo); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"net.json", "net.yaml", "net.toml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, Sample()); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if diff := cmp.Diff(Sample(), got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestNewCopies(t *testing.T) {
	nodes := []Node{{ID: "a"}}
	topo := New(nodes, nil)
	nodes[0].ID = "mutated"
	if topo.Nodes[0].ID != "a" {
		t.Error("New should copy node records")
	}
}

func TestNilTopologyCounts(t *testing.T) {
	var topo *Topology
	if topo.NodeCount() != 0 || topo.EdgeCount() != 0 || !topo.Empty() {
		t.Error("nil topology should be empty")
	}
}
