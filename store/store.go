// Package store 持久化处理结果（SVG、PNG），支持本地目录和 S3。
package store

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"

	"github.com/segmentio/ksuid"
)

var ErrEmptyPrefix = errors.New("store: empty filename prefix")

// Store 保存一个结果文件，返回其位置（本地路径或对象 key）
type Store interface {
	Save(ctx context.Context, prefix, ext string, data []byte) (string, error)
}

// objectName 生成 <prefix>_<ksuid><ext>，prefix 可以带子目录，如 "SVG/vector_edited"
func objectName(prefix, ext string) (string, error) {
	prefix = strings.Trim(path.Clean("/"+strings.ReplaceAll(prefix, "\\", "/")), "/")
	if prefix == "" {
		return "", ErrEmptyPrefix
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return prefix + "_" + ksuid.New().String() + ext, nil
}

func contentType(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch strings.ToLower(ext) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
