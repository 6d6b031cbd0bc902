// Package pipeline 串联背景检测、掩码合成、形状移除与栅格化，
// 外部能力缺失或输入无法处理时降级为固定的空白结果。
package pipeline

import (
	"context"

	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

// SentinelSize 空白结果的边长：128x128 全零 RGBA 图像和全零掩码
const SentinelSize = 128

// Output 流水线输出，Image 为 4 通道 RGBA，Mask 与之同尺寸
type Output struct {
	Image *raster.Image
	Mask  *raster.Mask
	SVG   string

	Reference raster.Color
	Removed   bool
	Area      float64
	Saved     []string
	Blank     bool
}

// Blank 返回空白结果
func Blank() *Output {
	return &Output{
		Image: raster.NewImage(SentinelSize, SentinelSize, 4),
		Mask:  raster.NewMask(SentinelSize, SentinelSize),
		Blank: true,
	}
}

// save 可选持久化，失败只记录日志
func save(ctx context.Context, s store.Store, prefix, ext string, data []byte) string {
	if s == nil {
		return ""
	}
	loc, err := s.Save(ctx, prefix, ext, data)
	if err != nil {
		util.Logger.Warn("failed to save output", zap.String("prefix", prefix), zap.Error(err))
		return ""
	}
	util.Logger.Info("saved output", zap.String("location", loc))
	return loc
}
