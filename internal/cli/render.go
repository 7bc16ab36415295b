package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command. Zero
// numeric values fall back to the config file.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // svg, png, json, dot, graphviz
	width    float64  // canvas width
	height   float64  // canvas height
	maxTicks int      // simulation tick budget
	pngScale float64  // PNG pixel multiplier
	noCache  bool     // bypass the cache entirely
	refresh  bool     // refetch the source, skipping cached documents
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Lay out a topology and write it to files",
		Long: `Render loads a topology, runs the force simulation until it settles and
writes the final frame in each requested format.

The source is a file (.json, .yaml, .toml), a dashboard backend URL
(http://host:5000), a document URL, a mongodb:// URI, or "sample".`,
		Example: `  topoviz render sample
  topoviz render net.yaml -f svg,png -o out/net
  topoviz render http://localhost:5000 -f dot --refresh`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSource,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, sourceArg(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, graphviz (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "simulation tick budget (default from config)")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", 2, "PNG pixel multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch the source even if cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, location string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := c.Config
	popts := pipeline.Options{
		Source:      location,
		Refresh:     opts.refresh,
		Width:       firstPositive(opts.width, cfg.Render.Width),
		Height:      firstPositive(opts.height, cfg.Render.Height),
		MaxTicks:    opts.maxTicks,
		Formats:     opts.formats,
		PNGScale:    opts.pngScale,
		Simulation:  cfg.SimulationOptions(),
		Interaction: cfg.InteractionOptions(),
		Render:      cfg.RenderOptions(),
		Logger:      logger,
	}
	if popts.MaxTicks <= 0 {
		popts.MaxTicks = cfg.Simulation.MaxTicks
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+location+"...")
	spinner.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(describe(err))
		return err
	}

	paths := outputPaths(opts.output, location, popts.Formats)
	spinner.SetMessage(fmt.Sprintf("Writing %d file(s)...", len(paths)))
	if err := writeArtifacts(paths, popts.Formats, result.Artifacts); err != nil {
		spinner.StopWithError(describe(err))
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))
	spinner.StopWithSuccess("Rendered " + StyleHighlight.Render(location))

	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Ticks, result.Stats.Converged)
	if result.Topology != nil {
		printHealth(result.Topology)
	}
	for _, d := range result.Diagnostics {
		printWarning("%s", describe(d))
	}
	if !result.Stats.Converged {
		printNextStep("Layout still moving; raise the budget", "topoviz render "+location+" --max-ticks 2000")
	}
	return nil
}

// writeArtifacts writes each format's bytes to its path, creating parent
// directories as needed.
func writeArtifacts(paths map[string]string, formats []string, artifacts map[string][]byte) error {
	for _, format := range formats {
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output writes exactly there; otherwise output (or a name derived
// from the source) is used as a base path and each format adds its own
// extension.
func outputPaths(output, location string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = baseName(location)
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExtensions[f]
	}
	return paths
}

// baseName derives a file stem from a source location.
func baseName(location string) string {
	if i := strings.Index(location, "://"); i >= 0 {
		return "topology"
	}
	name := filepath.Base(location)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "topology"
	}
	return name
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
