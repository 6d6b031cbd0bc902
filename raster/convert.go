package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// FromImage 把任意 image.Image 转为 3 通道归一化图像，alpha 被丢弃
func FromImage(src image.Image) *Image {
	nrgba := toNRGBA(src)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	out := NewImage(w, h, 3)
	for y := 0; y < h; y++ {
		row := y * nrgba.Stride
		for x := 0; x < w; x++ {
			p := nrgba.Pix[row+x*4 : row+x*4+3]
			px := out.At(x, y)
			px[0] = float32(p[0]) / 255
			px[1] = float32(p[1]) / 255
			px[2] = float32(p[2]) / 255
		}
	}
	return out
}

// FromNRGBA 把带 alpha 的图像转为 4 通道归一化图像，保留 alpha
func FromNRGBA(src image.Image) *Image {
	nrgba := toNRGBA(src)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	out := NewImage(w, h, 4)
	for y := 0; y < h; y++ {
		row := y * nrgba.Stride
		for x := 0; x < w; x++ {
			px := out.At(x, y)
			for c := 0; c < 4; c++ {
				px[c] = float32(nrgba.Pix[row+x*4+c]) / 255
			}
		}
	}
	return out
}

// ToNRGBA 转回标准图像，3 通道时 alpha 为不透明
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.At(x, y)
			c := color.NRGBA{A: 255}
			c.R = to8bit(px[0])
			if img.Channels >= 3 {
				c.G = to8bit(px[1])
				c.B = to8bit(px[2])
			} else {
				c.G, c.B = c.R, c.R
			}
			if img.Channels >= 4 {
				c.A = to8bit(px[3])
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// ToGray 把掩码转为灰度图，1.0 对应 255
func (m *Mask) ToGray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		out.Pix[i] = to8bit(v)
	}
	return out
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
