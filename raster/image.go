// Package raster 实现基于颜色的背景检测与掩码合成。
//
// 所有数据都是单次调用内的临时值：输入不会被修改，输出总是新分配的。
package raster

import "errors"

var (
	ErrEmptyImage        = errors.New("raster: empty image")
	ErrInvalidThreshold  = errors.New("raster: threshold must be within [0, 1]")
	ErrDimensionMismatch = errors.New("raster: image and mask dimensions differ")
	ErrChannelCount      = errors.New("raster: unsupported channel count")
)

// Image 归一化到 [0,1] 的浮点图像，按行存储，通道交错
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32
}

func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// At 返回 (x, y) 处像素的通道切片，与 Pix 共享内存
func (img *Image) At(x, y int) []float32 {
	i := (y*img.Width + x) * img.Channels
	return img.Pix[i : i+img.Channels]
}

func (img *Image) Empty() bool {
	return img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) == 0
}

// Mask 前景成员掩码，1.0 表示前景（保留），0.0 表示背景
type Mask struct {
	Width  int
	Height int
	Pix    []float32
}

func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

func (m *Mask) At(x, y int) float32 {
	return m.Pix[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v float32) {
	m.Pix[y*m.Width+x] = v
}

// Color 参考背景色，0-255 范围
type Color [3]float64

// to8bit 把归一化通道值量化到 0-255，截断取整，0.5 对应 127
func to8bit(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(float64(v) * 255)
}
