package raster

import (
	"image"
	"image/color"
)

// solidWithBorder 生成边框为 border、内部为 inner 的测试图
func solidWithBorder(w, h int, border, inner color.NRGBA) *Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := inner
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				c = border
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return FromImage(img)
}

func gray(v uint8) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}
