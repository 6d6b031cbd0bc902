package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	svg := buildSVG(40, 30, []string{area10, "M0,0 Lk", area50}, nil)

	info, err := Inspect(svg)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Paths)
	assert.Equal(t, 2, info.Parseable)
	assert.Equal(t, 50.0, info.LargestArea)
	assert.Equal(t, 2, info.LargestPath)
	assert.Equal(t, [4]float64{0, 0, 40, 30}, info.ViewBox)
}

func TestInspect_NoDocument(t *testing.T) {
	_, err := Inspect("")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestParseViewBox(t *testing.T) {
	assert.Equal(t, [4]float64{0, 0, 10, 20}, parseViewBox("0 0 10 20"))
	assert.Equal(t, [4]float64{1, 2, 3, 4}, parseViewBox("1,2,3,4"))
	assert.Equal(t, [4]float64{}, parseViewBox("1 2 3"))
	assert.Equal(t, [4]float64{}, parseViewBox("a b c d"))
}
