package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/topology"
)

func sampleScene(t *testing.T) *render.Scene {
	t.Helper()
	g, diags := sim.Adapt(topology.Sample())
	if len(diags) > 0 {
		t.Fatalf("sample diagnostics: %v", diags)
	}
	s := sim.New(g, sim.Options{Width: 800, Height: 600})
	for s.Step() {
	}
	return render.NewBuilder().Build(s.Snapshot(), render.Identity)
}

func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed XML: %v\n%s", err, doc)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	sc := sampleScene(t)
	out := RenderSVG(sc, WithBackground("#0f172a"))
	wellFormed(t, out)
	s := string(out)

	for _, want := range []string{
		`<marker id="arrow-active"`,
		`<marker id="arrow-error"`,
		`viewBox="0 -5 10 10"`,
		`orient="auto"`,
		`id="gradient-4"`,
		`fill="url(#gradient-4)"`,
		`marker-end="url(#arrow-error)"`,
		`transform="translate(-10,-10)"`,
		`text-anchor="middle"`,
		"Core Switch",
		`fill="#0f172a"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("RenderSVG() missing %s", want)
		}
	}
	if got := strings.Count(s, "<radialGradient"); got != 6 {
		t.Errorf("radial gradients = %d, want 6", got)
	}
	if got := strings.Count(s, "<line"); got != 5 {
		t.Errorf("lines = %d, want 5", got)
	}
}

func TestRenderSVGEscapesUserData(t *testing.T) {
	sc := render.NewBuilder().Build(sim.Snapshot{
		Nodes: []sim.NodeState{{ID: `a"b`, Name: "<script>"}},
	}, render.Identity)
	out := RenderSVG(sc)
	wellFormed(t, out)
	if bytes.Contains(out, []byte("<script>")) {
		t.Error("label was not escaped")
	}
}

func TestRenderSVGEmptyScene(t *testing.T) {
	sc := render.NewBuilder().Build(sim.Snapshot{}, render.Identity)
	out := RenderSVG(sc)
	wellFormed(t, out)
	if !bytes.Contains(out, []byte(`width="800`)) {
		t.Error("empty scene should fall back to the default canvas size")
	}
	if bytes.Contains(out, []byte("<circle")) {
		t.Error("empty scene should draw no nodes")
	}
}

func TestRenderPNG(t *testing.T) {
	sc := sampleScene(t)
	out, err := RenderPNG(sc, WithScale(0.5))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("size = %dx%d, want 400x300", b.Dx(), b.Dy())
	}

	// A disc edge is opaque; the corner is transparent.
	n := sc.Nodes[0]
	_, _, _, a := img.At(int((n.X+n.R-1)*0.5), int(n.Y*0.5)).RGBA()
	if a == 0 {
		t.Error("node stroke not drawn")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("background should be transparent without WithFill")
	}
}

func TestRenderPNGBadIcon(t *testing.T) {
	sc := &render.Scene{Nodes: []render.NodeShape{{ID: "x", R: 5, Icon: "Q1,2"}}}
	if _, err := RenderPNG(sc); err == nil {
		t.Error("RenderPNG() should reject unsupported icon paths")
	}
}

func TestParseHex(t *testing.T) {
	if c := parseHex("#22c55e", 1); c.R != 0x22 || c.G != 0xc5 || c.B != 0x5e || c.A != 255 {
		t.Errorf("parseHex(#22c55e) = %+v", c)
	}
	if c := parseHex("#fff", 0.5); c.R != 255 || c.A != 128 {
		t.Errorf("parseHex(#fff) = %+v", c)
	}
	if got, want := parseHex("tomato", 1), parseHex(render.ColorNeutral, 1); got != want {
		t.Errorf("unparseable color = %+v, want neutral %+v", got, want)
	}
}

func TestRenderJSON(t *testing.T) {
	sc := sampleScene(t)
	out, err := RenderJSON(sc)
	if err != nil {
		t.Fatal(err)
	}
	var back render.Scene
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Nodes) != 6 || len(back.Markers) != 4 || back.Transform.K != 1 {
		t.Errorf("decoded scene = %d nodes, %d markers, k %v", len(back.Nodes), len(back.Markers), back.Transform.K)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sc); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Error("WriteJSON() should emit one line")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleScene(t))
	for _, want := range []string{
		"digraph G",
		"layout=neato",
		`"2" -> "4" [color="#ef4444"`,
		`label="DB Server"`,
		`fillcolor="#eab308b2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s", want)
		}
	}
	if got := strings.Count(dot, "!\""); got != 6 {
		t.Errorf("pinned positions = %d, want 6", got)
	}
}

func TestRenderGraphviz(t *testing.T) {
	out, err := RenderGraphviz(context.Background(), ToDOT(sampleScene(t)))
	if err != nil {
		t.Fatalf("RenderGraphviz() error: %v", err)
	}
	if !bytes.Contains(out, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("root element not normalized: %.200s", out)
	}
	if !bytes.Contains(out, []byte("Core Switch")) {
		t.Error("graphviz output missing label")
	}
}

func TestRenderGraphvizInvalid(t *testing.T) {
	if _, err := RenderGraphviz(context.Background(), "digraph {"); err == nil {
		t.Error("RenderGraphviz() should reject malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("documents without a viewBox are left alone")
	}
}
