package interact

import (
	"math"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/topoviz/pkg/errors"
)

// Event is a single pointer or viewport gesture.
type Event interface {
	event()
}

// DragStart grabs a node. When NodeID is empty the node nearest to the
// pointer (within the hit radius) is grabbed.
type DragStart struct {
	Pointer int
	NodeID  string
	X, Y    float64
}

// DragMove moves the pointer of an active drag.
type DragMove struct {
	Pointer int
	X, Y    float64
}

// DragEnd releases the node held by Pointer.
type DragEnd struct {
	Pointer int
}

// Zoom multiplies the viewport scale by Factor, keeping the screen point
// (X, Y) fixed.
type Zoom struct {
	Factor float64
	X, Y   float64
}

// Pan translates the viewport by (DX, DY) screen units.
type Pan struct {
	DX, DY float64
}

// ResetView restores the identity viewport.
type ResetView struct{}

func (DragStart) event() {}
func (DragMove) event()  {}
func (DragEnd) event()   {}
func (Zoom) event()      {}
func (Pan) event()       {}
func (ResetView) event() {}

// =============================================================================
// Wire Format
// =============================================================================

// Wire event types.
const (
	TypeDragStart = "drag_start"
	TypeDragMove  = "drag_move"
	TypeDragEnd   = "drag_end"
	TypeZoom      = "zoom"
	TypePan       = "pan"
	TypeResetView = "reset_view"
)

// WireEvent is the JSON form of an Event, as posted by browser hosts.
type WireEvent struct {
	Type    string  `json:"type" validate:"required,oneof=drag_start drag_move drag_end zoom pan reset_view"`
	Pointer int     `json:"pointer,omitempty"`
	Node    string  `json:"node,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Factor  float64 `json:"factor,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
}

var validateWire = validator.New()

// Event validates a wire event and converts it into an Event.
func (w WireEvent) Event() (Event, error) {
	if err := validateWire.Struct(w); err != nil {
		return nil, errors.FromValidator(errors.ErrCodeInvalidEvent, err, "invalid event")
	}
	for _, f := range []float64{w.X, w.Y, w.Factor, w.DX, w.DY} {
		if math.IsNaN(f) {
			return nil, errors.New(errors.ErrCodeInvalidEvent, "%s: NaN coordinate", w.Type)
		}
	}
	switch w.Type {
	case TypeDragStart:
		return DragStart{Pointer: w.Pointer, NodeID: w.Node, X: w.X, Y: w.Y}, nil
	case TypeDragMove:
		return DragMove{Pointer: w.Pointer, X: w.X, Y: w.Y}, nil
	case TypeDragEnd:
		return DragEnd{Pointer: w.Pointer}, nil
	case TypeZoom:
		return Zoom{Factor: w.Factor, X: w.X, Y: w.Y}, nil
	case TypePan:
		return Pan{DX: w.DX, DY: w.DY}, nil
	case TypeResetView:
		return ResetView{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", w.Type)
}

// =============================================================================
// Queue
// =============================================================================

// Queue buffers events between hosts and the frame loop. It is safe for
// concurrent use.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends events in order.
func (q *Queue) Push(events ...Event) {
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

// Drain removes and returns every pending event.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Clear drops every pending event.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.events = nil
	q.mu.Unlock()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
