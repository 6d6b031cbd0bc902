package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <path d="M2,2 L8,2 L8,8 L2,8 Z" fill="#ff0000"/>
</svg>`

func TestOkSVG_Rasterize(t *testing.T) {
	r := NewOkSVG()

	data, err := r.Rasterize(square, 2)
	require.NoError(t, err)

	rgba, mask, err := DecodeRGBA(data)
	require.NoError(t, err)
	assert.Equal(t, 20, rgba.Width)
	assert.Equal(t, 20, rgba.Height)
	assert.Equal(t, 4, rgba.Channels)
	assert.Equal(t, rgba.Width, mask.Width)

	// 中心被填充，角落透明
	assert.InDelta(t, 1.0, mask.At(10, 10), 0.01)
	assert.InDelta(t, 0.0, mask.At(0, 0), 0.01)
	assert.InDelta(t, 1.0, rgba.At(10, 10)[0], 0.01)
}

func TestOkSVG_InvalidScale(t *testing.T) {
	r := NewOkSVG()
	for _, s := range []float64{0, 0.5, 16.5} {
		_, err := r.Rasterize(square, s)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestOkSVG_PixelLimit(t *testing.T) {
	r := &OkSVG{MaxPixels: 100}
	_, err := r.Rasterize(square, 4)
	assert.Error(t, err)
}

func TestDecodeRGBA_Invalid(t *testing.T) {
	_, _, err := DecodeRGBA([]byte("not a png"))
	assert.Error(t, err)
}
