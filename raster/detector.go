package raster

import (
	"fmt"
	"math"

	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

// DetectBackground 以边框像素均值作为背景色，按 RGB 欧氏距离生成前景掩码
//
// 通道先量化到 0-255，threshold ∈ [0,1] 同样放大到 0-255。
// 距离严格大于阈值的像素为前景；invert 为 true 时整体取反。
// 返回的 Color 是检测到的背景色，用于诊断。
func DetectBackground(img *Image, threshold float64, invert bool) (*Mask, Color, error) {
	if img.Empty() {
		return nil, Color{}, ErrEmptyImage
	}
	if img.Channels < 3 {
		return nil, Color{}, fmt.Errorf("%w: background detection needs at least 3 channels, got %d", ErrChannelCount, img.Channels)
	}
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, Color{}, ErrInvalidThreshold
	}

	key := BorderMean(img)
	util.Logger.Info("detected background color",
		zap.Int("r", int(key[0])),
		zap.Int("g", int(key[1])),
		zap.Int("b", int(key[2])))

	scaled := threshold * 255.0
	mask := NewMask(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			fg := distance(img.At(x, y), key) > scaled
			if invert {
				fg = !fg
			}
			if fg {
				mask.Set(x, y, 1)
			}
		}
	}

	return mask, key, nil
}

// BorderMean 计算四条 1 像素宽边框的通道均值
//
// 依次采样上、下、左、右边，角点会被所在的两条边各计一次。
func BorderMean(img *Image) Color {
	var sum [3]float64
	n := 0
	add := func(x, y int) {
		px := img.At(x, y)
		for c := 0; c < 3; c++ {
			sum[c] += float64(to8bit(px[c]))
		}
		n++
	}

	for x := 0; x < img.Width; x++ {
		add(x, 0)
	}
	for x := 0; x < img.Width; x++ {
		add(x, img.Height-1)
	}
	for y := 0; y < img.Height; y++ {
		add(0, y)
	}
	for y := 0; y < img.Height; y++ {
		add(img.Width-1, y)
	}

	var mean Color
	for c := 0; c < 3; c++ {
		mean[c] = sum[c] / float64(n)
	}
	return mean
}

func distance(px []float32, key Color) float64 {
	var d float64
	for c := 0; c < 3; c++ {
		diff := float64(to8bit(px[c])) - key[c]
		d += diff * diff
	}
	return math.Sqrt(d)
}
