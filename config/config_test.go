package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
removal:
  threshold: 0.25
  invert_mask: true
  scale: 8
vectorizer:
  backend: local
  timeout: 5s
storage:
  backend: s3
  s3:
    bucket: outputs
    use_path_style: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 0.25, cfg.Removal.Threshold)
	assert.True(t, cfg.Removal.InvertMask)
	assert.Equal(t, 8.0, cfg.Removal.Scale)
	assert.Equal(t, "local", cfg.Vectorizer.Backend)
	assert.Equal(t, 5*time.Second, cfg.Vectorizer.Timeout)
	assert.Equal(t, "outputs", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.UsePathStyle)

	// 未配置的项取默认值
	assert.Equal(t, "SVG/vector_edited", cfg.Removal.FilenamePrefix)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "阈值越界", content: "removal:\n  threshold: 1.5\n"},
		{name: "缩放越界", content: "removal:\n  scale: 32\n"},
		{name: "未知后端", content: "vectorizer:\n  backend: magic\n"},
		{name: "未知输出格式", content: "vectorizer:\n  output_format: eps\n"},
		{name: "未知存储", content: "storage:\n  backend: ftp\n"},
		{name: "worker 为 0", content: "batch:\n  workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
