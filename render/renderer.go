// Package render 把 SVG 栅格化为带 alpha 的 PNG，并从 alpha 通道提取掩码。
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/chaos-io/vecmask/raster"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	MinScale = 1.0
	MaxScale = 16.0
)

var (
	ErrInvalidScale = errors.New("render: scale must be within [1, 16]")
	ErrEmptyCanvas  = errors.New("render: document has no drawable size")
)

// Renderer 栅格化能力，返回 PNG 字节
type Renderer interface {
	Rasterize(doc string, scale float64) ([]byte, error)
}

// OkSVG 基于 oksvg/rasterx 的纯 Go 实现
type OkSVG struct {
	// MaxPixels 限制输出像素数，0 表示不限制
	MaxPixels int
}

func NewOkSVG() *OkSVG {
	return &OkSVG{MaxPixels: 8192 * 8192}
}

// Rasterize 按 viewBox 尺寸乘以 scale 渲染，背景透明
func (r *OkSVG) Rasterize(doc string, scale float64) ([]byte, error) {
	if scale < MinScale || scale > MaxScale || math.IsNaN(scale) {
		return nil, ErrInvalidScale
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}

	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyCanvas
	}
	if r.MaxPixels > 0 && w*h > r.MaxPixels {
		return nil, fmt.Errorf("render: %dx%d exceeds pixel limit %d", w, h, r.MaxPixels)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRGBA 解码渲染结果，返回 4 通道图像和 alpha 掩码
func DecodeRGBA(data []byte) (*raster.Image, *raster.Mask, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode png: %w", err)
	}

	rgba := raster.FromNRGBA(img)
	mask, err := raster.AlphaMask(rgba)
	if err != nil {
		return nil, nil, err
	}
	return rgba, mask, nil
}
