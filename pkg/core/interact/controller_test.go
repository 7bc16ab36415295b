package interact

import (
	stderrors "errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topoviz/pkg/errors"
)

// fakeEngine has nodes "a" at (0,0) and "b" at (100,0).
type fakeEngine struct {
	alphaTarget float64
	restarts    int
}

var fakePositions = map[string]r2.Vec{"a": {X: 0, Y: 0}, "b": {X: 100, Y: 0}}
var fakeOrder = []string{"a", "b"}

func (f *fakeEngine) Index(id string) (int, bool) {
	for i, n := range fakeOrder {
		if n == id {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeEngine) Nearest(p r2.Vec, radius float64) int {
	for i, id := range fakeOrder {
		if r2.Norm(r2.Sub(fakePositions[id], p)) <= radius {
			return i
		}
	}
	return -1
}

func (f *fakeEngine) SetAlphaTarget(a float64) { f.alphaTarget = a }
func (f *fakeEngine) Restart()                 { f.restarts++ }

func TestDragLifecycle(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{})

	c.Queue().Push(DragStart{Pointer: 1, NodeID: "b", X: 110, Y: 5})
	ch := c.Apply(e)
	if !ch.PinsChanged || ch.Events != 1 {
		t.Fatalf("Apply() = %+v, want one event with pin change", ch)
	}
	if e.alphaTarget != DefaultReheatTarget || e.restarts != 1 {
		t.Errorf("alphaTarget = %v, restarts = %d, want %v, 1", e.alphaTarget, e.restarts, DefaultReheatTarget)
	}
	if p, ok := c.Pin(1); !ok || p != (r2.Vec{X: 110, Y: 5}) {
		t.Errorf("Pin(1) = %v, %v, want (110, 5)", p, ok)
	}

	c.Queue().Push(DragMove{Pointer: 1, X: 150, Y: 60}, DragMove{Pointer: 1, X: 160, Y: 70})
	c.Apply(e)
	if p, _ := c.Pin(1); p != (r2.Vec{X: 160, Y: 70}) {
		t.Errorf("Pin(1) after moves = %v, want (160, 70)", p)
	}

	c.Queue().Push(DragEnd{Pointer: 1})
	c.Apply(e)
	if _, ok := c.Pin(1); ok {
		t.Error("pin should be released after DragEnd")
	}
	if e.alphaTarget != 0 {
		t.Errorf("alphaTarget after DragEnd = %v, want 0", e.alphaTarget)
	}
	if c.ActiveDrags() != 0 {
		t.Errorf("ActiveDrags() = %d, want 0", c.ActiveDrags())
	}
}

func TestDragHitTestUsesViewport(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{})
	// Zoom 2x around the origin: node b is drawn at screen (200, 0).
	c.Queue().Push(Zoom{Factor: 2}, DragStart{Pointer: 0, X: 204, Y: 2})
	c.Apply(e)

	p, ok := c.Pin(1)
	if !ok {
		t.Fatal("drag at b's screen position should grab b")
	}
	if p != (r2.Vec{X: 102, Y: 1}) {
		t.Errorf("Pin(1) = %v, want layout point (102, 1)", p)
	}
	if got := c.Viewport().Apply(p); got != (r2.Vec{X: 204, Y: 2}) {
		t.Errorf("pinned node drawn at %v, want pointer (204, 2)", got)
	}
}

func TestDragOnBackgroundIgnored(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{})
	c.Queue().Push(DragStart{X: 50, Y: 400}, DragMove{X: 60, Y: 400}, DragEnd{})
	if ch := c.Apply(e); ch.PinsChanged {
		t.Errorf("Apply() = %+v, want no pin change", ch)
	}
	if e.restarts != 0 || e.alphaTarget != 0 {
		t.Errorf("background drag touched the engine: %+v", e)
	}
}

func TestMultiTouchReheatsOnce(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{ReheatTarget: 0.5})
	c.Queue().Push(
		DragStart{Pointer: 1, NodeID: "a"},
		DragStart{Pointer: 2, NodeID: "b"},
	)
	c.Apply(e)
	if e.restarts != 1 {
		t.Errorf("restarts = %d, want 1", e.restarts)
	}

	c.Queue().Push(DragEnd{Pointer: 1})
	c.Apply(e)
	if e.alphaTarget != 0.5 {
		t.Errorf("alphaTarget with one drag left = %v, want 0.5", e.alphaTarget)
	}
	if _, ok := c.Pin(0); ok {
		t.Error("node a should be released")
	}
	if _, ok := c.Pin(1); !ok {
		t.Error("node b should still be pinned")
	}

	c.Queue().Push(DragEnd{Pointer: 2})
	c.Apply(e)
	if e.alphaTarget != 0 {
		t.Errorf("alphaTarget = %v, want 0", e.alphaTarget)
	}
}

func TestZoomPanDoNotTouchEngine(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{})
	c.Queue().Push(Zoom{Factor: 1.5, X: 10, Y: 10}, Pan{DX: 3, DY: 4}, ResetView{}, Pan{DX: 1})
	ch := c.Apply(e)
	if !ch.ViewChanged || ch.PinsChanged {
		t.Errorf("Apply() = %+v, want view change only", ch)
	}
	if e.restarts != 0 {
		t.Error("viewport events should not restart the engine")
	}
	if v := c.Viewport(); v.K != 1 || v.X != 1 || v.Y != 0 {
		t.Errorf("Viewport() = %+v, want k=1 x=1 y=0", v)
	}
}

func TestDetach(t *testing.T) {
	e := &fakeEngine{}
	c := NewController(nil, Options{})
	c.Queue().Push(DragStart{Pointer: 1, NodeID: "a"})
	c.Apply(e)

	c.Queue().Push(DragMove{Pointer: 1, X: 9, Y: 9})
	c.Detach()
	if c.Queue().Len() != 0 {
		t.Error("Detach should drop pending events")
	}
	if _, ok := c.Pin(0); ok {
		t.Error("Detach should drop pins")
	}

	c.Queue().Push(DragStart{Pointer: 1, NodeID: "b"})
	if ch := c.Apply(e); ch.Any() {
		t.Errorf("detached controller applied events: %+v", ch)
	}
}

func TestWireEvent(t *testing.T) {
	tests := []struct {
		in      WireEvent
		want    Event
		wantErr bool
	}{
		{WireEvent{Type: TypeDragStart, Pointer: 2, Node: "7", X: 1, Y: 2}, DragStart{Pointer: 2, NodeID: "7", X: 1, Y: 2}, false},
		{WireEvent{Type: TypeDragMove, X: 3, Y: 4}, DragMove{X: 3, Y: 4}, false},
		{WireEvent{Type: TypeDragEnd, Pointer: 2}, DragEnd{Pointer: 2}, false},
		{WireEvent{Type: TypeZoom, Factor: 1.1, X: 5}, Zoom{Factor: 1.1, X: 5}, false},
		{WireEvent{Type: TypePan, DX: -2, DY: 8}, Pan{DX: -2, DY: 8}, false},
		{WireEvent{Type: TypeResetView}, ResetView{}, false},
		{WireEvent{Type: "rotate"}, nil, true},
		{WireEvent{X: 1, Y: 2}, nil, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Event()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.in.Type, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Event() = %#v, want %#v", tt.in.Type, got, tt.want)
		}
	}
}

func TestWireEventMissingType(t *testing.T) {
	_, err := WireEvent{Pointer: 1, X: 4}.Event()
	if !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Fatalf("err = %v, want INVALID_EVENT", err)
	}
	var ve *errors.ValidationError
	if !stderrors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Rule != "required" {
		t.Errorf("validation detail = %+v, want one required failure", ve)
	}
}
