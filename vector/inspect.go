package vector

import (
	"strconv"
	"strings"

	"github.com/chaos-io/vecmask/util"
	rsvg "github.com/rustyoz/svg"
	"go.uber.org/zap"
)

// Info SVG 文档概况
type Info struct {
	Width       string     `json:"width"`
	Height      string     `json:"height"`
	ViewBox     [4]float64 `json:"view_box"`
	Paths       int        `json:"paths"`
	Parseable   int        `json:"parseable"`
	LargestArea float64    `json:"largest_area"`
	LargestPath int        `json:"largest_path"`
}

// Inspect 统计文档中的 path，并读取根元素的尺寸信息
func Inspect(svg string) (*Info, error) {
	doc, err := Parse(svg)
	if err != nil {
		return nil, err
	}

	paths := doc.Paths()
	info := &Info{Paths: len(paths), LargestPath: -1}
	for _, p := range paths {
		if _, err := PathBBox(p.SelectAttrValue("d", "")); err == nil {
			info.Parseable++
		}
	}
	if best, ok := Largest(paths); ok {
		info.LargestArea = best.BBox.Area()
		info.LargestPath = best.Index
	}

	header, err := rsvg.ParseSvg(svg, "inspect", 1.0)
	if err != nil {
		util.Logger.Warn("svg header not readable", zap.Error(err))
		return info, nil
	}
	info.Width = header.Width
	info.Height = header.Height
	info.ViewBox = parseViewBox(header.ViewBox)

	return info, nil
}

func parseViewBox(s string) [4]float64 {
	var vb [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 4 {
		return vb
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return [4]float64{}
		}
		vb[i] = v
	}
	return vb
}
