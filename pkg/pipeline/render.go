package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/canvas/raster"
	"github.com/fontparts/partsmap/pkg/canvas/record"
	"github.com/fontparts/partsmap/pkg/canvas/vector"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
)

// render draws once per format, each on a fresh canvas of logical size
// w×h, and encodes the result.
func (r *Runner) render(ctx context.Context, kind string, formats []string, w, h float64, cv config.Canvas, title string, draw func(canvas.Canvas) error) (map[string][]byte, error) {
	hooks := r.hooks()
	hooks.OnRenderStart(ctx, kind, formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(formats))
	var err error
	for _, format := range formats {
		var data []byte
		if data, err = encode(format, w, h, cv, title, draw); err != nil {
			break
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, kind, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func encode(format string, w, h float64, cv config.Canvas, title string, draw func(canvas.Canvas) error) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		opts := []vector.Option{vector.WithScale(cv.Scale), vector.WithBackground(cv.Background)}
		if cv.EmbedFonts {
			opts = append(opts, vector.WithEmbeddedFonts())
		}
		if title != "" {
			opts = append(opts, vector.WithTitle(title))
		}
		c := vector.New(&buf, w, h, opts...)
		if err := draw(c); err != nil {
			return nil, err
		}
		if err := c.Close(); err != nil {
			return nil, encodeError(format, err)
		}
	case FormatPNG:
		c := raster.New(w, h, raster.WithScale(cv.Scale), raster.WithBackground(cv.Background))
		if err := draw(c); err != nil {
			return nil, err
		}
		if err := c.EncodePNG(&buf); err != nil {
			return nil, encodeError(format, err)
		}
	case FormatJSON:
		c := record.New(w, h)
		if err := draw(c); err != nil {
			return nil, err
		}
		if err := c.Encode(&buf); err != nil {
			return nil, encodeError(format, err)
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "cannot draw format %q", format).In(errors.PhaseEncode, "")
	}
	return buf.Bytes(), nil
}

func encodeError(format string, err error) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format).In(errors.PhaseEncode, "")
}
