// Package interact turns pointer gestures into pins and viewport changes.
//
// Hosts never touch the simulation directly. They push [Event] values onto a
// [Queue] from any goroutine; once per frame the [Controller] drains the
// queue, before the simulation computes forces, and applies every event in
// order:
//
//	DragStart  pin a node under the pointer, reheat on the first drag
//	DragMove   move the pin with the pointer
//	DragEnd    release the pin, stop reheating when no drag remains
//	Zoom       scale the viewport around an anchor, clamped to [0.5, 2]
//	Pan        translate the viewport
//	ResetView  restore the identity viewport
//
// Pointer coordinates are in screen space and are mapped into layout space
// through the inverse [Viewport]. The viewport itself never feeds back into
// layout coordinates.
package interact
