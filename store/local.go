package store

import (
	"context"
	"os"
	"path/filepath"
)

// Local 保存到本地输出目录
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Save(ctx context.Context, prefix, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := objectName(prefix, ext)
	if err != nil {
		return "", err
	}

	full := filepath.Join(l.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return full, nil
}
