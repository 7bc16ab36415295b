// Package pipeline runs the batch load → simulate → render pipeline.
//
// The CLI's render command and the server's one-shot endpoints share this
// code so a topology is laid out and drawn the same way everywhere.
//
// # Stages
//
//  1. Load: read the topology from a [source.Source] (remote sources are
//     cached through pkg/cache)
//  2. Simulate: step a [visualizer.Visualizer] until the layout cools
//     below alphaMin or MaxTicks frames have run
//  3. Render: draw the final scene to each requested format
//
// Layouts are never cached; only fetched documents are.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "http://localhost:5000",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoviz/pkg/core/interact"
	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600.0

	// DefaultMaxTicks bounds the simulate stage. The default cooling
	// schedule converges in 300 ticks, so this only matters when a caller
	// lowers the decay.
	DefaultMaxTicks = 1000
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatSVG:      ".svg",
	FormatPNG:      ".png",
	FormatJSON:     ".json",
	FormatDOT:      ".dot",
	FormatGraphviz: ".neato.svg",
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Source is a location understood by source.Open. Ignored when
	// Topology is set.
	Source string `json:"source,omitempty"`
	// Topology bypasses the load stage.
	Topology *topology.Topology `json:"-"`
	// Refresh skips the source cache.
	Refresh bool `json:"refresh,omitempty"`

	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	MaxTicks int      `json:"max_ticks,omitempty"`
	Formats  []string `json:"formats"`

	// PNGScale multiplies the PNG pixel size.
	PNGScale float64 `json:"png_scale,omitempty"`

	Simulation  sim.Options      `json:"-"`
	Interaction interact.Options `json:"-"`
	Render      []render.Option  `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and rejects unknown formats.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want svg, png, json, dot or graphviz)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of Execute.
type Result struct {
	Topology *topology.Topology
	Scene    *render.Scene
	// Artifacts maps format to encoded bytes.
	Artifacts map[string][]byte
	// Diagnostics lists records the adapter dropped.
	Diagnostics []*errors.Error
	Stats       Stats
}

// Stats records per-stage timings and simulation outcome.
type Stats struct {
	NodeCount int
	EdgeCount int
	Ticks     int
	Converged bool

	LoadTime     time.Duration
	SimulateTime time.Duration
	RenderTime   time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d ticks (converged=%t)", s.NodeCount, s.EdgeCount, s.Ticks, s.Converged)
}
