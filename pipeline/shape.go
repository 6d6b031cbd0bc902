package pipeline

import (
	"context"
	"errors"

	"github.com/chaos-io/vecmask/render"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"github.com/chaos-io/vecmask/vector"
	"go.uber.org/zap"
)

const DefaultEditedPrefix = "SVG/vector_edited"

// ShapeOptions 形状背景移除参数
type ShapeOptions struct {
	Scale          float64
	SaveSVG        bool
	FilenamePrefix string
}

// ShapeRemover 形状背景移除，renderer 和 store 都是可选能力
type ShapeRemover struct {
	renderer render.Renderer
	store    store.Store
}

func NewShapeRemover(renderer render.Renderer, s store.Store) *ShapeRemover {
	return &ShapeRemover{renderer: renderer, store: s}
}

// Remove 删除面积最大的 path 后栅格化，掩码取自渲染结果的 alpha 通道
//
// 输入为空、渲染能力缺失、文档无法解析或渲染失败时返回空白结果，不返回 error。
func (s *ShapeRemover) Remove(ctx context.Context, svg string, opts ShapeOptions) *Output {
	if svg == "" {
		util.Logger.Warn("empty svg input, returning blank output")
		return Blank()
	}
	if s.renderer == nil {
		util.Logger.Warn("svg renderer unavailable, returning blank output")
		return Blank()
	}

	removal, err := vector.RemoveLargestPath(svg)
	if err != nil {
		if errors.Is(err, vector.ErrNoDocument) {
			util.Logger.Warn("svg document not parseable", zap.Error(err))
		} else {
			util.Logger.Error("svg background removal failed", zap.Error(err))
		}
		return Blank()
	}

	var saved []string
	if opts.SaveSVG {
		prefix := opts.FilenamePrefix
		if prefix == "" {
			prefix = DefaultEditedPrefix
		}
		if loc := save(ctx, s.store, prefix, ".svg", []byte(removal.Modified)); loc != "" {
			saved = append(saved, loc)
		}
	}

	util.Logger.Info("rendering modified svg", zap.Float64("scale", opts.Scale))
	data, err := s.renderer.Rasterize(removal.Modified, opts.Scale)
	if err != nil {
		util.Logger.Error("svg rasterization failed", zap.Error(err))
		return Blank()
	}

	rgba, mask, err := render.DecodeRGBA(data)
	if err != nil {
		util.Logger.Error("rendered png not decodable", zap.Error(err))
		return Blank()
	}

	return &Output{
		Image:   rgba,
		Mask:    mask,
		SVG:     removal.Modified,
		Removed: removal.Removed,
		Area:    removal.Area,
		Saved:   saved,
	}
}
