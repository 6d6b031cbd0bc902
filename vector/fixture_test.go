package vector

import (
	"bytes"
	"testing"

	svgo "github.com/ajstarks/svgo"
	"github.com/stretchr/testify/require"
)

// buildSVG 用 svgo 生成带 viewBox 的测试文档，extra 可追加非 path 元素
func buildSVG(w, h int, paths []string, extra func(c *svgo.SVG)) string {
	var buf bytes.Buffer
	c := svgo.New(&buf)
	c.Startview(w, h, 0, 0, w, h)
	if extra != nil {
		extra(c)
	}
	for _, d := range paths {
		c.Path(d, "fill:#336699")
	}
	c.End()
	return buf.String()
}

// pathAreas 按文档顺序返回可解析 path 的包围盒面积
func pathAreas(t *testing.T, svg string) []float64 {
	doc, err := Parse(svg)
	require.NoError(t, err)

	var areas []float64
	for _, p := range doc.Paths() {
		b, err := PathBBox(p.SelectAttrValue("d", ""))
		if err != nil {
			continue
		}
		areas = append(areas, b.Area())
	}
	return areas
}
