package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/render/sink"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/observability"
)

// Render draws sc in every format of opts.Formats. Each draw is reported
// through the render hooks.
func (r *Runner) Render(ctx context.Context, sc *render.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := RenderFormat(ctx, sc, format, opts.PNGScale)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat draws one scene in one format.
func RenderFormat(ctx context.Context, sc *render.Scene, format string, pngScale float64) ([]byte, error) {
	start := time.Now()
	data, err := renderFormat(ctx, sc, format, pngScale)
	observability.Render().OnRender(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, sc *render.Scene, format string, pngScale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc), nil
	case FormatPNG:
		var opts []sink.PNGOption
		if pngScale > 0 {
			opts = append(opts, sink.WithScale(pngScale))
		}
		data, err := sink.RenderPNG(sc, opts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
		}
		return data, nil
	case FormatJSON:
		return sink.RenderJSON(sc)
	case FormatDOT:
		return []byte(sink.ToDOT(sc)), nil
	case FormatGraphviz:
		return sink.RenderGraphviz(ctx, sink.ToDOT(sc))
	}
	return nil, ValidateFormat(format)
}
