// Package server exposes a live visualizer over HTTP.
//
// One frame loop goroutine steps the visualizer and pushes every changed
// scene to server-sent-event subscribers. Handlers never step the
// simulation: they read the latest scene, enqueue interaction events, or
// swap the topology, all of which the visualizer serializes internally.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/scene               scene as JSON
//	GET  /api/scene.svg           scene as SVG
//	GET  /api/scene.png           scene as PNG (?scale=2)
//	GET  /api/scene.dot           scene as Graphviz DOT
//	GET  /api/scene.neato.svg     DOT laid out by Graphviz neato
//	GET  /api/snapshot            raw simulation state
//	GET  /api/stream              server-sent events, one scene per frame
//	POST /api/events              JSON array of interaction events
//	PUT  /api/topology            replace the graph (json, yaml or toml body)
//	POST /api/topology/reload     reload from the configured source
//	POST /api/simulation/start
//	POST /api/simulation/stop
//	GET  /metrics                 Prometheus metrics, when enabled
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/topoviz/pkg/metrics"
	"github.com/matzehuels/topoviz/pkg/source"
	"github.com/matzehuels/topoviz/pkg/topology"
	"github.com/matzehuels/topoviz/pkg/visualizer"
)

// Defaults.
const (
	DefaultFrameInterval = time.Second / 60
	DefaultMaxBody       = 8 << 20
)

// Options configures a Server.
type Options struct {
	Visualizer *visualizer.Visualizer

	// Source, when set, is loaded on Run and polled every ReloadInterval.
	// A zero interval loads it once.
	Source         source.Source
	ReloadInterval time.Duration

	FrameInterval time.Duration

	// Metrics enables /metrics and request instrumentation.
	Metrics *metrics.Registry

	Logger *log.Logger
}

// Server serves one visualizer.
type Server struct {
	vis     *visualizer.Visualizer
	src     source.Source
	reload  time.Duration
	frame   time.Duration
	metrics *metrics.Registry
	logger  *log.Logger
	hub     *Hub
	router  chi.Router
}

// New builds the server and its routes. A nil Visualizer gets a default
// one.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Visualizer == nil {
		opts.Visualizer = visualizer.New(visualizer.Options{Logger: opts.Logger})
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	s := &Server{
		vis:     opts.Visualizer,
		src:     opts.Source,
		reload:  opts.ReloadInterval,
		frame:   opts.FrameInterval,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		hub:     NewHub(opts.Logger, opts.Visualizer.Scene),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Get("/scene.svg", s.handleSceneAs(formatSVG))
		r.Get("/scene.png", s.handleSceneAs(formatPNG))
		r.Get("/scene.dot", s.handleSceneAs(formatDOT))
		r.Get("/scene.neato.svg", s.handleSceneAs(formatGraphviz))
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/stream", s.hub.ServeHTTP)

		r.Post("/events", s.handleEvents)
		r.Put("/topology", s.handleReplace)
		r.Post("/topology/reload", s.handleReload)
		r.Post("/simulation/start", s.handleStart)
		r.Post("/simulation/stop", s.handleStop)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the scene broadcaster.
func (s *Server) Hub() *Hub { return s.hub }

// Run drives the frame loop and, when a source is configured, the reload
// poller. It returns when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.src != nil {
		go func() {
			_ = source.Watch(ctx, s.src, s.reload, s.logger, func(t *topology.Topology) {
				s.vis.ReplaceContext(ctx, t)
			})
		}()
	}
	return s.vis.Run(ctx, s.frame, s.hub.Broadcast)
}

// ListenAndServe serves on addr and runs the frame loop until ctx is done,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer stop()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
