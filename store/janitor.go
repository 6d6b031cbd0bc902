package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/chaos-io/vecmask/util"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor 定时清理本地输出目录中过期的文件
type Janitor struct {
	dir       string
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

func NewJanitor(dir string, retention time.Duration) *Janitor {
	return &Janitor{
		dir:       dir,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start 按 cron 表达式启动清理任务，如 "@hourly"
func (j *Janitor) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, func() {
		if _, err := j.Sweep(); err != nil {
			util.Logger.Warn("output sweep failed", zap.String("dir", j.dir), zap.Error(err))
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep 删除修改时间早于保留期的文件，返回删除数量
func (j *Janitor) Sweep() (int, error) {
	if j.retention <= 0 {
		return 0, nil
	}
	deadline := j.now().Add(-j.retention)

	removed := 0
	err := filepath.WalkDir(j.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(deadline) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	if removed > 0 {
		util.Logger.Info("swept expired outputs", zap.String("dir", j.dir), zap.Int("removed", removed))
	}
	return removed, err
}
