// Package batch 对目录下匹配的图片并发执行颜色背景移除。
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/chaos-io/vecmask/pipeline"
	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrNoMatch = errors.New("batch: no file matches the pattern")

type Options struct {
	Workers   int
	Pattern   string
	Threshold float64
	Invert    bool
	// Prefix 输出对象名前缀，后接源文件的相对路径
	Prefix string
}

// Result 单个文件的处理结果，Err 非空时其余字段无意义
type Result struct {
	Path      string
	Reference raster.Color
	Coverage  float64
	Saved     []string
	Err       error
}

type Runner struct {
	store store.Store
}

func NewRunner(s store.Store) *Runner {
	return &Runner{store: s}
}

type task struct {
	ctx    context.Context
	dir    string
	idx    int
	opts   Options
	r      *Runner
	files  []string
	result []Result
	wg     *sync.WaitGroup
}

func newPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		t, ok := args.(*task)
		if !ok {
			panic("batch pool args type error")
		}
		defer t.wg.Done()
		t.result[t.idx] = t.r.process(t.ctx, t.dir, t.files[t.idx], t.opts)
	})
	if err != nil {
		return nil, fmt.Errorf("create batch pool: %w", err)
	}
	return pool, nil
}

// Run 结果顺序与排序后的匹配文件一致
func (r *Runner) Run(ctx context.Context, dir string, opts Options) ([]Result, error) {
	defer util.Trace("batch run")()

	files, err := doublestar.Glob(os.DirFS(dir), opts.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", opts.Pattern, err)
	}
	if len(files) == 0 {
		return nil, ErrNoMatch
	}
	slices.Sort(files)

	pool, err := newPool(opts.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	util.Logger.Info("batch started",
		zap.String("dir", dir),
		zap.String("pattern", opts.Pattern),
		zap.Int("files", len(files)),
		zap.Int("workers", opts.Workers))

	results := make([]Result, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		t := &task{ctx: ctx, dir: dir, idx: i, opts: opts, r: r, files: files, result: results, wg: &wg}
		if err := pool.Invoke(t); err != nil {
			wg.Done()
			results[i] = Result{Path: files[i], Err: fmt.Errorf("submit task: %w", err)}
		}
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	util.Logger.Info("batch finished", zap.Int("files", len(files)), zap.Int("failed", failed))
	return results, nil
}

func (r *Runner) process(ctx context.Context, dir, name string, opts Options) Result {
	res := Result{Path: name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	img, err := util.OpenImage(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		res.Err = err
		return res
	}

	out, err := pipeline.RemoveColorBackground(raster.FromImage(img), opts.Threshold, opts.Invert)
	if err != nil {
		res.Err = err
		return res
	}
	res.Reference = out.Reference
	res.Coverage = out.Mask.Coverage()

	if r.store == nil {
		return res
	}

	stem := path.Join(opts.Prefix, strings.TrimSuffix(name, path.Ext(name)))
	rgba, err := util.EncodePNG(out.Image.ToNRGBA())
	if err != nil {
		res.Err = err
		return res
	}
	mask, err := util.EncodePNG(out.Mask.ToGray())
	if err != nil {
		res.Err = err
		return res
	}

	for _, o := range []struct {
		suffix string
		data   []byte
	}{{"_rgba", rgba}, {"_mask", mask}} {
		loc, err := r.store.Save(ctx, stem+o.suffix, ".png", o.data)
		if err != nil {
			res.Err = fmt.Errorf("save %s: %w", name, err)
			return res
		}
		res.Saved = append(res.Saved, loc)
	}

	util.Logger.Debug("batch file done", zap.String("file", name), zap.Float64("coverage", res.Coverage))
	return res
}
