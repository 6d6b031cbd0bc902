package raster

import "image"

// Bounds 计算掩码中值大于 threshold 的像素包围盒，没有前景时 ok 为 false
func (m *Mask) Bounds(threshold float32) (rect image.Rectangle, ok bool) {
	minX, minY := m.Width, m.Height
	maxX, maxY := 0, 0

	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			if v <= threshold {
				continue
			}
			ok = true
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Coverage 前景像素占比
func (m *Mask) Coverage() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.Pix {
		sum += float64(v)
	}
	return sum / float64(len(m.Pix))
}
