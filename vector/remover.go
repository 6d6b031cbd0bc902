package vector

import (
	"github.com/beevik/etree"
	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

// Candidate 参与面积比较的一条 path
type Candidate struct {
	Index   int
	Element *etree.Element
	BBox    BBox
}

// Removal 形状背景移除的结果
type Removal struct {
	Original    string
	Modified    string
	Removed     bool
	Area        float64
	BBox        BBox
	PathsBefore int
	PathsAfter  int
}

// Largest 返回包围盒面积最大的 path
//
// 使用严格大于比较，面积相同时保留文档顺序中靠前的那条；
// 无法解析的 path 直接跳过。没有任何可解析 path 时 ok 为 false。
func Largest(paths []*etree.Element) (best Candidate, ok bool) {
	largest := -1.0
	for i, p := range paths {
		d := p.SelectAttrValue("d", "")
		if d == "" {
			continue
		}
		bbox, err := PathBBox(d)
		if err != nil {
			util.Logger.Debug("skip path", zap.Int("index", i), zap.Error(err))
			continue
		}
		if area := bbox.Area(); area > largest {
			largest = area
			best = Candidate{Index: i, Element: p, BBox: bbox}
			ok = true
		}
	}
	return best, ok
}

// RemoveLargestPath 解析 SVG，删除面积最大的 path 并重新序列化
//
// 原始文本原样保存在 Removal.Original 中。没有可解析 path 时不做删除，
// Modified 为重新序列化的原文档。
func RemoveLargestPath(svg string) (*Removal, error) {
	doc, err := Parse(svg)
	if err != nil {
		return nil, err
	}

	paths := doc.Paths()
	result := &Removal{
		Original:    svg,
		PathsBefore: len(paths),
		PathsAfter:  len(paths),
	}

	if best, ok := Largest(paths); ok && doc.Remove(best.Element) {
		result.Removed = true
		result.Area = best.BBox.Area()
		result.BBox = best.BBox
		result.PathsAfter--
		util.Logger.Info("found and removed largest shape",
			zap.Float64("area", result.Area),
			zap.Int("index", best.Index))
	} else {
		util.Logger.Warn("could not identify a largest shape to remove",
			zap.Int("paths", len(paths)))
	}

	result.Modified, err = doc.String()
	if err != nil {
		return nil, err
	}
	return result, nil
}
