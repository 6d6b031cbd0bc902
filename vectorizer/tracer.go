package vectorizer

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/gotranspile/gotrace"
	"golang.org/x/image/draw"
)

// Tracer 使用 gotrace 在本地矢量化，只输出单色轮廓 SVG
type Tracer struct{}

func NewTracer() *Tracer {
	return &Tracer{}
}

func (t *Tracer) Vectorize(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if opts.Format != FormatSVG {
		return nil, fmt.Errorf("%w: local tracer only produces svg, got %q", ErrUnsupportedFormat, opts.Format)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	svg, err := traceGrayToSVG(gray)
	if err != nil {
		return nil, err
	}
	return &Result{Format: FormatSVG, Data: svg}, nil
}

// traceGrayToSVG 使用 gotrace 将 image.Gray 转 SVG
func traceGrayToSVG(gray *image.Gray) ([]byte, error) {
	bm := gotrace.BitmapFromGray(gray, nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return nil, fmt.Errorf("trace bitmap: %w", err)
	}

	var buf bytes.Buffer
	sz := gray.Bounds().Size()
	if err := gotrace.Render("svg", nil, &buf, paths, sz.X, sz.Y); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}
