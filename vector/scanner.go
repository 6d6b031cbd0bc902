package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// ErrUnparseablePath d 属性无法解析出至少一对坐标
var ErrUnparseablePath = errors.New("vector: unparseable path data")

// isCommand 只识别 M L C Z（大小写均可），作为分隔符；
// H V S Q T A 等其它字母会落进数字 token，整条 path 因此被判为无法解析
func isCommand(r rune) bool {
	switch unicode.ToUpper(r) {
	case 'M', 'L', 'C', 'Z':
		return true
	}
	return false
}

type scanState int

const (
	stateSeparator scanState = iota
	stateNumber
)

// ScanCoordinates 扫描 d 属性，返回其中所有数字组成的扁平列表
//
// 这是一个近似：M L C Z 命令字母、逗号和空白只起分隔作用，相对坐标按绝对值处理，
// 曲线控制点和端点一样作为采样点。出现其它命令字母或非数字 token 时返回 ErrUnparseablePath。
func ScanCoordinates(d string) ([]float64, error) {
	var (
		coords []float64
		state  = stateSeparator
		start  int
	)

	flush := func(end int) error {
		token := d[start:end]
		v, err := strconv.ParseFloat(token, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bad token %q", ErrUnparseablePath, token)
		}
		coords = append(coords, v)
		return nil
	}

	for i, r := range d {
		sep := r == ',' || unicode.IsSpace(r) || isCommand(r)
		switch state {
		case stateSeparator:
			if !sep {
				state = stateNumber
				start = i
			}
		case stateNumber:
			if sep {
				if err := flush(i); err != nil {
					return nil, err
				}
				state = stateSeparator
			}
		}
	}
	if state == stateNumber {
		if err := flush(len(d)); err != nil {
			return nil, err
		}
	}

	return coords, nil
}

// BBox 坐标采样点的轴对齐包围盒
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b BBox) Area() float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// PathBBox 从 d 属性估算包围盒：偶数下标为 x，奇数下标为 y
func PathBBox(d string) (BBox, error) {
	coords, err := ScanCoordinates(d)
	if err != nil {
		return BBox{}, err
	}
	if len(coords) < 2 {
		return BBox{}, fmt.Errorf("%w: %d coordinates", ErrUnparseablePath, len(coords))
	}

	b := BBox{
		MinX: coords[0], MaxX: coords[0],
		MinY: coords[1], MaxY: coords[1],
	}
	for i := 2; i < len(coords); i++ {
		v := coords[i]
		if i%2 == 0 {
			b.MinX = math.Min(b.MinX, v)
			b.MaxX = math.Max(b.MaxX, v)
		} else {
			b.MinY = math.Min(b.MinY, v)
			b.MaxY = math.Max(b.MaxY, v)
		}
	}
	return b, nil
}
