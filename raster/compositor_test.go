package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_AlphaEqualsMask(t *testing.T) {
	img := solidWithBorder(6, 4, gray(200), gray(10))
	mask, _, err := DetectBackground(img, 0.1, false)
	require.NoError(t, err)

	rgba, outMask, err := Composite(img, mask)
	require.NoError(t, err)
	assert.Equal(t, 4, rgba.Channels)
	assert.Equal(t, img.Width, rgba.Width)
	assert.Equal(t, img.Height, rgba.Height)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := rgba.At(x, y)
			assert.Equal(t, mask.At(x, y), px[3])
			assert.Equal(t, mask.At(x, y), outMask.At(x, y))
			assert.InDelta(t, img.At(x, y)[0], px[0], 1.0/255)
		}
	}

	// 输出掩码是独立拷贝
	outMask.Pix[0] = 0.5
	assert.NotEqual(t, outMask.Pix[0], mask.Pix[0])
}

func TestComposite_DimensionMismatch(t *testing.T) {
	img := solidWithBorder(4, 4, gray(0), gray(0))

	_, _, err := Composite(img, NewMask(4, 3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = Composite(img, NewMask(3, 4))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestComposite_ChannelCount(t *testing.T) {
	_, _, err := Composite(NewImage(2, 2, 1), NewMask(2, 2))
	assert.ErrorIs(t, err, ErrChannelCount)
}

func TestComposite_TruncatesChannels(t *testing.T) {
	img := NewImage(1, 1, 3)
	copy(img.Pix, []float32{0.5, 0.999, 0.2})
	mask := NewMask(1, 1)
	mask.Set(0, 0, 0.5)

	rgba, outMask, err := Composite(img, mask)
	require.NoError(t, err)

	px := rgba.At(0, 0)
	assert.Equal(t, []uint8{127, 254, 51, 127}, []uint8{to8bit(px[0]), to8bit(px[1]), to8bit(px[2]), to8bit(px[3])})
	assert.InDelta(t, 127.0/255, px[0], 1e-7)
	assert.InDelta(t, 254.0/255, px[1], 1e-7)
	assert.InDelta(t, 51.0/255, px[2], 1e-7)
	assert.InDelta(t, 127.0/255, outMask.At(0, 0), 1e-7)
}

func TestTo8bit(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{in: -0.3, want: 0},
		{in: 0, want: 0},
		{in: 0.5, want: 127},
		{in: 0.999, want: 254},
		{in: 1, want: 255},
		{in: 1.7, want: 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, to8bit(tt.in), "in %v", tt.in)
	}

	// 8 位输入经归一化后量化不变
	for u := 0; u < 256; u++ {
		assert.Equal(t, uint8(u), to8bit(float32(u)/255))
	}
}

func TestAlphaMask(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Pix = []uint8{10, 20, 30, 255, 40, 50, 60, 0}

	rgba := FromNRGBA(src)
	mask, err := AlphaMask(rgba)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, mask.Pix)

	_, err = AlphaMask(FromImage(src))
	assert.ErrorIs(t, err, ErrChannelCount)
}

func TestMask_BoundsAndCoverage(t *testing.T) {
	mask := NewMask(5, 5)
	_, ok := mask.Bounds(0.5)
	assert.False(t, ok)

	mask.Set(1, 2, 1)
	mask.Set(3, 3, 1)
	rect, ok := mask.Bounds(0.5)
	require.True(t, ok)
	assert.Equal(t, image.Rect(1, 2, 4, 4), rect)
	assert.InDelta(t, 2.0/25, mask.Coverage(), 1e-9)
}

func TestImage_ToNRGBA(t *testing.T) {
	img := solidWithBorder(3, 3, gray(200), gray(10))
	mask, _, err := DetectBackground(img, 0.1, false)
	require.NoError(t, err)
	rgba, _, err := Composite(img, mask)
	require.NoError(t, err)

	out := rgba.ToNRGBA()
	c := out.NRGBAAt(1, 1)
	assert.Equal(t, uint8(10), c.R)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)

	g := mask.ToGray()
	assert.Equal(t, uint8(255), g.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), g.GrayAt(0, 1).Y)
}
