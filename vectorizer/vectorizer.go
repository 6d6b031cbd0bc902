// Package vectorizer 把位图转换为 SVG：远程 vectorizer.ai 接口或本地 gotrace。
package vectorizer

import (
	"context"
	"errors"
	"image"
	"strings"
)

const (
	FormatSVG = "svg"
	FormatPNG = "png"

	placeholderID     = "YOUR_API_ID_HERE"
	placeholderSecret = "YOUR_API_SECRET_HERE"
)

var (
	ErrMissingCredentials = errors.New("vectorizer: api id is missing")
	ErrUnsupportedFormat  = errors.New("vectorizer: unsupported output format")
)

// Options 对应 vectorizer.ai 的请求参数
type Options struct {
	Mode               string  `json:"mode"`
	Format             string  `json:"format"`
	MaxColors          int     `json:"max_colors"`
	MinShapeArea       float64 `json:"min_shape_area"`
	AdobeCompatibility bool    `json:"adobe_compatibility"`
	DisableGapFiller   bool    `json:"disable_gap_filler"`
}

func DefaultOptions() Options {
	return Options{
		Mode:             "production",
		Format:           FormatSVG,
		MinShapeArea:     0.125,
		DisableGapFiller: true,
	}
}

// Result 矢量化结果，Format 为 svg 时 Data 是 SVG 文本，为 png 时是 PNG 字节
type Result struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

type Vectorizer interface {
	Vectorize(ctx context.Context, img image.Image, opts Options) (*Result, error)
}

// Credentials 接口凭证
type Credentials struct {
	ID     string
	Secret string
}

// ResolveCredentials 请求里的 id 和 secret 都未填写时回退到配置中的凭证
func ResolveCredentials(request, configured Credentials) (Credentials, error) {
	idEmpty := request.ID == placeholderID || strings.TrimSpace(request.ID) == ""
	secretEmpty := request.Secret == placeholderSecret || strings.TrimSpace(request.Secret) == ""

	final := request
	if idEmpty && secretEmpty && configured.ID != "" && configured.Secret != "" {
		final = configured
	}

	if strings.TrimSpace(final.ID) == "" || final.ID == placeholderID {
		return Credentials{}, ErrMissingCredentials
	}
	return final, nil
}
