package pipeline

import (
	"context"
	"fmt"
	"image"
	"strconv"

	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/render"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"github.com/chaos-io/vecmask/vectorizer"
	"go.uber.org/zap"
)

const (
	OutputSVG       = "svg"
	OutputPNG       = "png"
	OutputScaledPNG = "scaled_png"

	DefaultVectorPrefix = "SVG/vector"
)

// VectorizeOptions 矢量化流水线参数
type VectorizeOptions struct {
	vectorizer.Options
	OutputFormat   string
	Scale          float64
	SaveSVG        bool
	FilenamePrefix string
}

// VectorizeOutput Image 为 3 通道 RGB；接口失败时 Image 是输入原图，SVG 为空
type VectorizeOutput struct {
	Image *raster.Image
	SVG   string
	Saved []string
}

// Vectorizer 调用矢量化后端，按输出格式返回 SVG 文本或解码后的位图
type Vectorizer struct {
	backend  vectorizer.Vectorizer
	renderer render.Renderer
	store    store.Store
}

func NewVectorizer(backend vectorizer.Vectorizer, renderer render.Renderer, s store.Store) *Vectorizer {
	return &Vectorizer{backend: backend, renderer: renderer, store: s}
}

func (v *Vectorizer) Run(ctx context.Context, img image.Image, opts VectorizeOptions) *VectorizeOutput {
	passthrough := &VectorizeOutput{Image: raster.FromImage(img)}
	if v.backend == nil {
		util.Logger.Warn("vectorizer backend unavailable")
		return passthrough
	}

	prefix := opts.FilenamePrefix
	if prefix == "" {
		prefix = DefaultVectorPrefix
	}

	req := opts.Options
	req.Format = vectorizer.FormatSVG
	if opts.OutputFormat == OutputPNG {
		req.Format = vectorizer.FormatPNG
	}

	res, err := v.backend.Vectorize(ctx, img, req)
	if err != nil {
		util.Logger.Error("vectorization failed", zap.Error(err))
		return passthrough
	}
	util.Logger.Info("vectorization complete", zap.String("format", res.Format), zap.Int("bytes", len(res.Data)))

	out := &VectorizeOutput{Image: passthrough.Image}
	switch res.Format {
	case vectorizer.FormatPNG:
		if loc := save(ctx, v.store, prefix, ".png", res.Data); loc != "" {
			out.Saved = append(out.Saved, loc)
		}
		decoded, err := util.DecodeImage(res.Data)
		if err != nil {
			util.Logger.Error("vectorizer png not decodable", zap.Error(err))
			return out
		}
		out.Image = raster.FromImage(decoded)
		return out

	default:
		out.SVG = string(res.Data)
		if opts.SaveSVG {
			if loc := save(ctx, v.store, prefix, ".svg", res.Data); loc != "" {
				out.Saved = append(out.Saved, loc)
			}
		}
	}

	if opts.OutputFormat != OutputScaledPNG {
		return out
	}
	if v.renderer == nil {
		util.Logger.Warn("svg renderer unavailable, skip scaled png")
		return out
	}

	util.Logger.Info("scaling svg to png", zap.Float64("scale", opts.Scale))
	pngData, err := v.renderer.Rasterize(out.SVG, opts.Scale)
	if err != nil {
		util.Logger.Error("svg to png conversion failed", zap.Error(err))
		return out
	}
	scaledPrefix := fmt.Sprintf("%s_scaled_%sx", prefix, strconv.FormatFloat(opts.Scale, 'f', -1, 64))
	if loc := save(ctx, v.store, scaledPrefix, ".png", pngData); loc != "" {
		out.Saved = append(out.Saved, loc)
	}

	decoded, err := util.DecodeImage(pngData)
	if err != nil {
		util.Logger.Error("scaled png not decodable", zap.Error(err))
		return out
	}
	out.Image = raster.FromImage(decoded)
	return out
}
