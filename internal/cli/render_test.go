package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/topoviz/pkg/topology"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		location string
		formats  []string
		want     map[string]string
	}{
		{"single explicit", "out/net.svg", "sample", []string{"svg"}, map[string]string{"svg": "out/net.svg"}},
		{"base from source", "", "dir/office.yaml", []string{"svg", "png"}, map[string]string{"svg": "office.svg", "png": "office.png"}},
		{"base from url", "", "http://host:5000", []string{"dot"}, map[string]string{"dot": "topology.dot"}},
		{"explicit base", "out/net", "sample", []string{"json", "graphviz"}, map[string]string{"json": "out/net.json", "graphviz": "out/net.neato.svg"}},
		{"extension stripped", "out/net.svg", "sample", []string{"svg", "png"}, map[string]string{"svg": "out/net.svg", "png": "out/net.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.location, tt.formats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"svg": filepath.Join(dir, "nested", "net.svg"),
		"dot": filepath.Join(dir, "net.dot"),
	}
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("digraph{}")}
	if err := writeArtifacts(paths, []string{"svg", "dot"}, artifacts); err != nil {
		t.Fatal(err)
	}
	for format, path := range paths {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, artifacts[format]) {
			t.Errorf("%s = %q, want %q", path, got, artifacts[format])
		}
	}

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	bad := map[string]string{"svg": filepath.Join(blocker, "net.svg")}
	if err := writeArtifacts(bad, []string{"svg"}, artifacts); err == nil {
		t.Error("writing below a regular file should fail")
	}
}

func TestSourceArg(t *testing.T) {
	if got := sourceArg(nil); got != "sample" {
		t.Errorf("sourceArg(nil) = %q", got)
	}
	if got := sourceArg([]string{"net.json"}); got != "net.json" {
		t.Errorf("sourceArg = %q", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "office.json")
	if err := topology.WriteFile(input, topology.Sample()); err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(dir, "out", "office")

	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-f", "svg,png,dot", "-o", base, "--config", filepath.Join(dir, "none.toml")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	for ext, prefix := range map[string]string{".svg": "<?xml", ".png": "\x89PNG", ".dot": "digraph"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte(prefix)) {
			t.Errorf("%s output starts %.10q, want %q", ext, data, prefix)
		}
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"render", "sample", "-f", "pdf", "--config", filepath.Join(t.TempDir(), "none.toml")})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("render with an unknown format should fail")
	}
}

func TestHealthCounts(t *testing.T) {
	topo := topology.Sample()
	topo.Nodes = append(topo.Nodes, topology.Node{ID: "7", Name: "Probe", Type: topology.TypeServer, Status: "unknown"})

	got := healthCounts(topo)
	want := []statusCount{
		{topology.StatusActive, 5},
		{topology.StatusWarning, 1},
		{"unknown", 1},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(statusCount{})); diff != "" {
		t.Errorf("healthCounts mismatch (-want +got):\n%s", diff)
	}
}
