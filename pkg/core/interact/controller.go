package interact

import (
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

// Controller defaults.
const (
	DefaultReheatTarget = 0.3
	DefaultHitRadius    = 25
)

// Engine is the part of the simulation the controller drives.
type Engine interface {
	Index(id string) (int, bool)
	Nearest(p r2.Vec, radius float64) int
	SetAlphaTarget(a float64)
	Restart()
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	ReheatTarget float64
	HitRadius    float64
	MinScale     float64
	MaxScale     float64
	Logger       *log.Logger
}

// Changes summarizes what one Apply call did.
type Changes struct {
	Events      int
	PinsChanged bool
	ViewChanged bool
}

// Any reports whether anything visible changed.
func (c Changes) Any() bool { return c.PinsChanged || c.ViewChanged }

// Controller owns the pins and the viewport of one simulation.
//
// Apply and the Pin lookups run on the frame goroutine; only the queue is
// shared with other goroutines.
type Controller struct {
	queue  *Queue
	opts   Options
	logger *log.Logger

	view     Viewport
	pins     map[int]r2.Vec
	drags    map[int]int // pointer -> node index
	detached bool
}

// NewController returns a controller that consumes queue.
func NewController(queue *Queue, opts Options) *Controller {
	if opts.ReheatTarget <= 0 {
		opts.ReheatTarget = DefaultReheatTarget
	}
	if opts.HitRadius <= 0 {
		opts.HitRadius = DefaultHitRadius
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if queue == nil {
		queue = NewQueue()
	}
	return &Controller{
		queue:  queue,
		opts:   opts,
		logger: opts.Logger,
		view:   NewViewport(opts.MinScale, opts.MaxScale),
		pins:   make(map[int]r2.Vec),
		drags:  make(map[int]int),
	}
}

// Queue returns the queue the controller drains.
func (c *Controller) Queue() *Queue { return c.queue }

// Pin reports the pinned position of node i. It satisfies sim.Pinner.
func (c *Controller) Pin(i int) (r2.Vec, bool) {
	p, ok := c.pins[i]
	return p, ok
}

// Viewport returns the current transform.
func (c *Controller) Viewport() Viewport { return c.view }

// ActiveDrags returns the number of pointers currently holding a node.
func (c *Controller) ActiveDrags() int { return len(c.drags) }

// Apply drains the queue and applies every event to e, in order.
func (c *Controller) Apply(e Engine) Changes {
	events := c.queue.Drain()
	ch := Changes{Events: len(events)}
	if c.detached {
		return Changes{}
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case DragStart:
			ch.PinsChanged = c.dragStart(e, ev) || ch.PinsChanged
		case DragMove:
			ch.PinsChanged = c.dragMove(ev) || ch.PinsChanged
		case DragEnd:
			ch.PinsChanged = c.dragEnd(e, ev.Pointer) || ch.PinsChanged
		case Zoom:
			ch.ViewChanged = c.view.ScaleBy(ev.Factor, r2.Vec{X: ev.X, Y: ev.Y}) || ch.ViewChanged
		case Pan:
			ch.ViewChanged = c.view.TranslateBy(ev.DX, ev.DY) || ch.ViewChanged
		case ResetView:
			ch.ViewChanged = c.view.Reset() || ch.ViewChanged
		}
	}
	return ch
}

func (c *Controller) dragStart(e Engine, ev DragStart) bool {
	p := c.view.Invert(r2.Vec{X: ev.X, Y: ev.Y})
	if !finite(p) {
		return false
	}

	idx := -1
	if ev.NodeID != "" {
		if i, ok := e.Index(ev.NodeID); ok {
			idx = i
		}
	} else {
		idx = e.Nearest(p, c.opts.HitRadius)
	}
	if idx < 0 {
		c.logger.Debug("drag start missed", "pointer", ev.Pointer, "node", ev.NodeID)
		return false
	}

	if _, busy := c.drags[ev.Pointer]; busy {
		c.dragEnd(e, ev.Pointer)
	}
	if len(c.drags) == 0 {
		e.SetAlphaTarget(c.opts.ReheatTarget)
		e.Restart()
	}
	c.drags[ev.Pointer] = idx
	c.pins[idx] = p
	return true
}

func (c *Controller) dragMove(ev DragMove) bool {
	idx, ok := c.drags[ev.Pointer]
	if !ok {
		return false
	}
	p := c.view.Invert(r2.Vec{X: ev.X, Y: ev.Y})
	if !finite(p) {
		return false
	}
	c.pins[idx] = p
	return true
}

func (c *Controller) dragEnd(e Engine, pointer int) bool {
	idx, ok := c.drags[pointer]
	if !ok {
		return false
	}
	delete(c.drags, pointer)
	if !c.heldByOther(idx) {
		delete(c.pins, idx)
	}
	if len(c.drags) == 0 {
		e.SetAlphaTarget(0)
	}
	return true
}

func (c *Controller) heldByOther(idx int) bool {
	for _, i := range c.drags {
		if i == idx {
			return true
		}
	}
	return false
}

// Detach drops pending events, drags and pins. A detached controller
// ignores every later event.
func (c *Controller) Detach() {
	c.detached = true
	c.queue.Clear()
	clear(c.pins)
	clear(c.drags)
}
