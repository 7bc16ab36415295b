// Package pkg provides the core libraries for topoviz network topology
// visualization.
//
// # Overview
//
// topoviz reads device and connection records, lays them out with a
// force-directed simulation, and draws them as status-coloured node-link
// diagrams. The pkg directory is organized into these areas:
//
//  1. core - Domain logic (simulation, interaction, scene building, sinks)
//  2. [topology] - The input data model, its formats and validation
//  3. [source] - Where topologies come from (files, HTTP, MongoDB)
//  4. [visualizer] - The live, concurrency-safe frame loop
//  5. [pipeline] - One-shot orchestration (load → simulate → render)
//  6. [server] - HTTP and server-sent event transport
//
// # Architecture
//
// The typical data flow:
//
//	File / dashboard backend / MongoDB
//	         ↓
//	    [source] package (load + validate)
//	         ↓
//	    [core/sim] package (force simulation, one tick per frame)
//	         ↑
//	    [core/interact] package (drag, zoom, pan events)
//	         ↓
//	    [core/render] package (scene: shapes, gradients, markers)
//	         ↓
//	    SVG/PNG/JSON/DOT/terminal output
//
// # Quick Start
//
// Lay out the sample topology and write an SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/topoviz/pkg/pipeline"
//	)
//
//	r := pipeline.NewRunner(nil, nil, nil)
//	res, _ := r.Execute(context.Background(), pipeline.Options{
//	    Source:  "sample",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	os.WriteFile("net.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// Drive a live layout:
//
//	v := visualizer.New(visualizer.Options{Width: 800, Height: 600})
//	v.Replace(topology.Sample())
//	go v.Run(ctx, time.Second/60, func(sc *render.Scene) { ... })
//	v.Enqueue(interact.DragStart{NodeID: "4", X: 400, Y: 300})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/sim] - Velocity Verlet force simulation with link, charge, collide
// and center forces and an exponentially cooling alpha.
//
// [core/interact] - Pointer and viewport events applied between ticks.
// Dragged nodes are pinned; the viewport maps layout space to the screen.
//
// [core/render] - Builds an immutable [render.Scene] from a snapshot.
//
// [core/render/sink] - Serializes scenes: SVG, PNG, JSON, DOT, Graphviz
// and a character grid for terminals.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches for fetched source documents.
//
// [httputil] - Cached, retrying HTTP client used by remote sources.
//
// [config] - The TOML settings file.
//
// [errors] - Coded errors shared by every package.
//
// [metrics] and [observability] - Prometheus collectors and the hooks
// that feed them.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/sim/...           # Specific package
//	TOPOVIZ_MONGO_URI=mongodb://localhost go test ./pkg/source/...
//
// [core/sim]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/core/sim
// [core/interact]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/core/interact
// [core/render]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/core/render
// [core/render/sink]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/core/render/sink
// [render.Scene]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/core/render#Scene
// [topology]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/topology
// [source]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/source
// [visualizer]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/visualizer
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/errors
// [metrics]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/topoviz/pkg/observability
package pkg
