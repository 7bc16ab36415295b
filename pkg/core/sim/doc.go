// Package sim implements the force-directed layout engine behind the
// topology view.
//
// # Arena
//
// [Adapt] copies [topology.Topology] records into a [Graph]: a slice of
// [Node] entities indexed by position, and [Edge] entities that refer to
// their endpoints by index. Edges whose endpoints do not resolve are
// dropped and reported as diagnostics, so the force loop never sees a
// dangling reference.
//
// # Cooling
//
// A [Simulation] carries a cooling scalar alpha. Each tick moves alpha
// toward alphaTarget by alphaDecay:
//
//	alpha += (alphaTarget - alpha) * alphaDecay
//
// With alphaTarget at 0 this is plain multiplicative decay, so alpha never
// increases. Once alpha drops below alphaMin (and alphaTarget is below it
// too) the simulation stops; [Simulation.Restart] resumes it.
//
// # Forces
//
// Forces implement [Force] and write into an [Accumulator]. All of them read
// the same snapshot of positions and velocities taken at the start of the
// tick; no node moves until every force has run. Defaults:
//
//	link      distance 100, strength 1
//	many-body strength -800, distanceMax 300
//	center    canvas center
//	collide   radius 60
//
// # Pins
//
// The engine never writes pins. A [Pinner] (the interaction controller)
// answers per node whether it is held; held nodes are placed exactly at the
// pin with zero velocity and still exert forces on the others.
package sim
