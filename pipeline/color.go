package pipeline

import (
	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

// RemoveColorBackground 颜色背景移除：边框取色 -> 成员掩码 -> 合成 RGBA
//
// 空图像返回空白结果；阈值非法或尺寸不一致属于调用错误，直接返回 error。
func RemoveColorBackground(img *raster.Image, threshold float64, invert bool) (*Output, error) {
	if img.Empty() {
		util.Logger.Warn("empty input image, returning blank output")
		return Blank(), nil
	}

	mask, key, err := raster.DetectBackground(img, threshold, invert)
	if err != nil {
		return nil, err
	}

	rgba, out, err := raster.Composite(img, mask)
	if err != nil {
		return nil, err
	}

	util.Logger.Debug("color background removed",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Float64("coverage", out.Coverage()))

	return &Output{
		Image:     rgba,
		Mask:      out,
		Reference: key,
	}, nil
}
