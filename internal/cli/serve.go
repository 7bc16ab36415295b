package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/metrics"
	"github.com/matzehuels/topoviz/pkg/server"
)

type serveOpts struct {
	addr    string
	metrics bool
	noCache bool
	reload  time.Duration
	frame   time.Duration
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve a live layout over HTTP",
		Long: `Serve runs the force simulation continuously and exposes the scene over
HTTP: JSON, SVG, PNG and DOT snapshots, an event endpoint for drag, zoom
and pan, and a server-sent event stream with one scene per frame.

The source is polled every --reload interval; the layout is only rebuilt
when its content changes.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSource,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, sourceArg(args), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&opts.reload, "reload", -1, "source poll interval, 0 to load once (default from config)")
	cmd.Flags().DurationVar(&opts.frame, "frame-interval", 0, "simulation frame interval (default from config)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, location string, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := c.Config.Server

	src, ch, err := c.openSource(ctx, location, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	addr := opts.addr
	if addr == "" {
		addr = cfg.Addr
	}
	reload := opts.reload
	if reload < 0 {
		reload = cfg.ReloadInterval.Duration
	}
	frame := opts.frame
	if frame <= 0 {
		frame = cfg.FrameInterval.Duration
	}

	var reg *metrics.Registry
	if opts.metrics {
		reg = metrics.NewRegistry()
		reg.Install()
	}

	srv := server.New(server.Options{
		Visualizer:     c.newVisualizer(componentLogger(logger, "layout")),
		Source:         src,
		ReloadInterval: reload,
		FrameInterval:  frame,
		Metrics:        reg,
		Logger:         componentLogger(logger, "server"),
	})

	printSuccess("Serving %s", StyleHighlight.Render(src.String()))
	printKeyValue("scene", StyleLink.Render("http://"+addr+"/api/scene.svg"))
	printKeyValue("stream", StyleLink.Render("http://"+addr+"/api/stream"))
	if reg != nil {
		printKeyValue("metrics", StyleLink.Render("http://"+addr+"/metrics"))
	}
	printNewline()

	return srv.ListenAndServe(ctx, addr)
}
