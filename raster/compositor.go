package raster

import "fmt"

// Composite 把掩码作为第 4 通道附加到图像上
//
// RGB 取量化后的 8 位值再归一化，alpha 为掩码值；返回的掩码是独立拷贝。
// 尺寸不一致属于调用方错误，直接返回 ErrDimensionMismatch。
func Composite(img *Image, mask *Mask) (*Image, *Mask, error) {
	if img.Empty() || mask == nil {
		return nil, nil, ErrEmptyImage
	}
	if img.Channels < 3 {
		return nil, nil, fmt.Errorf("%w: composite needs at least 3 channels, got %d", ErrChannelCount, img.Channels)
	}
	if img.Width != mask.Width || img.Height != mask.Height || len(mask.Pix) != img.Width*img.Height {
		return nil, nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrDimensionMismatch, img.Width, img.Height, mask.Width, mask.Height)
	}

	rgba := NewImage(img.Width, img.Height, 4)
	out := NewMask(mask.Width, mask.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := img.At(x, y)
			dst := rgba.At(x, y)
			for c := 0; c < 3; c++ {
				dst[c] = float32(to8bit(src[c])) / 255
			}
			a := float32(to8bit(mask.At(x, y))) / 255
			dst[3] = a
			out.Set(x, y, a)
		}
	}

	return rgba, out, nil
}

// AlphaMask 读取 4 通道图像的 alpha 作为掩码
func AlphaMask(rgba *Image) (*Mask, error) {
	if rgba.Empty() {
		return nil, ErrEmptyImage
	}
	if rgba.Channels != 4 {
		return nil, fmt.Errorf("%w: alpha mask needs 4 channels, got %d", ErrChannelCount, rgba.Channels)
	}

	mask := NewMask(rgba.Width, rgba.Height)
	for y := 0; y < rgba.Height; y++ {
		for x := 0; x < rgba.Width; x++ {
			mask.Set(x, y, rgba.At(x, y)[3])
		}
	}
	return mask, nil
}
