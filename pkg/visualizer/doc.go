// Package visualizer couples the layout engine, the interaction controller
// and the scene builder into one frame loop.
//
// Each [Visualizer.Frame] drains pending interaction events into pins and
// the viewport, advances the simulation by at most one tick and, when
// anything moved, rebuilds the scene from a fresh snapshot. Frame is the
// only place simulation state changes; hosts on other goroutines enqueue
// events, call [Visualizer.Start], [Visualizer.Stop] or
// [Visualizer.Replace], and read the last scene.
//
//	v := visualizer.New(visualizer.Options{Width: 800, Height: 600})
//	v.Replace(topology.Sample())
//	v.Run(ctx, 16*time.Millisecond, func(sc *render.Scene) { draw(sc) })
package visualizer
