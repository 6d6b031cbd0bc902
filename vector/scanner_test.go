package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		d       string
		want    []float64
		wantErr bool
	}{
		{name: "绝对命令", d: "M0,0 L10,0 L10,5 Z", want: []float64{0, 0, 10, 0, 10, 5}},
		{name: "紧凑写法", d: "M1,2L3,4C5,6 7,8 9,10z", want: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{name: "相对命令", d: "m1 2 l3 4 c 1 1 2 2 3 3 z", want: []float64{1, 2, 3, 4, 1, 1, 2, 2, 3, 3}},
		{name: "负数和小数", d: "M-1.5,2e1 L.5,-3", want: []float64{-1.5, 20, 0.5, -3}},
		{name: "空字符串", d: "", want: nil},
		{name: "只有命令", d: "M Z", want: nil},
		{name: "非数字", d: "M0,0 Lfoo,1", wantErr: true},
		{name: "负号粘连", d: "M0-1", wantErr: true},
		{name: "水平垂直命令", d: "M0,0 H100 V100 H0 Z", wantErr: true},
		{name: "小写水平命令", d: "M0,0 h10", wantErr: true},
		{name: "二次曲线", d: "M0,0 Q5,5 10,0", wantErr: true},
		{name: "平滑曲线", d: "M0,0 S5,5 10,0", wantErr: true},
		{name: "平滑二次曲线", d: "M0,0 T10,0", wantErr: true},
		{name: "圆弧", d: "M0,0 A5,5 0 0 1 10,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanCoordinates(tt.d)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparseablePath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathBBox(t *testing.T) {
	b, err := PathBBox("M0,0 L10,0 L10,5 Z")
	require.NoError(t, err)
	assert.Equal(t, BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 5}, b)
	assert.Equal(t, 50.0, b.Area())

	// 奇数个坐标时最后一个 x 也参与
	b, err = PathBBox("M0,0 L4,3 L8")
	require.NoError(t, err)
	assert.Equal(t, 24.0, b.Area())

	_, err = PathBBox("M5")
	assert.ErrorIs(t, err, ErrUnparseablePath)

	_, err = PathBBox("Z")
	assert.ErrorIs(t, err, ErrUnparseablePath)
}
