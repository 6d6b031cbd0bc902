package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaos-io/vecmask/batch"
	"github.com/chaos-io/vecmask/config"
	"github.com/chaos-io/vecmask/pipeline"
	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/render"
	"github.com/chaos-io/vecmask/util"
	"github.com/chaos-io/vecmask/vectorizer"
	"go.uber.org/zap"
)

var errNoInput = errors.New("-in is required")

func runColor(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("color", flag.ExitOnError)
	in := fs.String("in", "", "输入图片路径或 URL")
	out := fs.String("out", cfg.Storage.OutputDir, "输出目录")
	threshold := fs.Float64("threshold", cfg.Removal.Threshold, "颜色距离阈值 [0, 1]")
	invert := fs.Bool("invert", cfg.Removal.InvertMask, "反转掩码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errNoInput
	}

	img, err := loadImage(ctx, *in)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	res, err := pipeline.RemoveColorBackground(raster.FromImage(img), *threshold, *invert)
	if err != nil {
		return err
	}
	util.Logger.Info("color background removed",
		zap.Float64("r", res.Reference[0]),
		zap.Float64("g", res.Reference[1]),
		zap.Float64("b", res.Reference[2]),
		zap.Float64("coverage", res.Mask.Coverage()))

	return writeOutput(*out, stem(*in), res)
}

func runShape(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("shape", flag.ExitOnError)
	in := fs.String("in", "", "输入 SVG 文件")
	out := fs.String("out", cfg.Storage.OutputDir, "输出目录")
	scale := fs.Float64("scale", cfg.Removal.Scale, "栅格化缩放 [1, 16]")
	saveSVG := fs.Bool("save-svg", cfg.Removal.SaveSVG, "保存修改后的 SVG")
	prefix := fs.String("prefix", cfg.Removal.FilenamePrefix, "SVG 文件名前缀")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errNoInput
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	s, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	res := pipeline.NewShapeRemover(render.NewOkSVG(), s).Remove(ctx, string(data), pipeline.ShapeOptions{
		Scale:          *scale,
		SaveSVG:        *saveSVG,
		FilenamePrefix: *prefix,
	})
	if res.Blank {
		util.Logger.Warn("shape removal produced blank output", zap.String("input", *in))
	}
	return writeOutput(*out, stem(*in), res)
}

func runVectorize(ctx context.Context, cfg *config.Config, args []string) error {
	vc := cfg.Vectorizer
	fs := flag.NewFlagSet("vectorize", flag.ExitOnError)
	in := fs.String("in", "", "输入图片路径或 URL")
	out := fs.String("out", cfg.Storage.OutputDir, "输出目录")
	format := fs.String("format", vc.OutputFormat, "输出格式 svg, png, scaled_png")
	scale := fs.Float64("scale", cfg.Removal.Scale, "scaled_png 的缩放 [1, 16]")
	apiID := fs.String("api-id", "", "vectorizer.ai API ID，为空时使用配置")
	apiSecret := fs.String("api-secret", "", "vectorizer.ai API Secret")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errNoInput
	}

	var creds vectorizer.Credentials
	if vc.Backend == "api" {
		var err error
		creds, err = vectorizer.ResolveCredentials(vectorizer.Credentials{ID: *apiID, Secret: *apiSecret}, vc.Credentials())
		if err != nil {
			return err
		}
	}

	img, err := loadImage(ctx, *in)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	s, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	cache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	res := pipeline.NewVectorizer(backendFunc(cfg, cache)(creds), render.NewOkSVG(), s).Run(ctx, img, pipeline.VectorizeOptions{
		Options:        vc.Options(),
		OutputFormat:   *format,
		Scale:          *scale,
		SaveSVG:        vc.SaveSVG,
		FilenamePrefix: vc.FilenamePrefix,
	})

	name := stem(*in)
	if res.SVG != "" {
		path := filepath.Join(*out, name+".svg")
		if err := os.MkdirAll(*out, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(res.SVG), 0o644); err != nil {
			return err
		}
		util.Logger.Info("svg written", zap.String("path", path))
	}
	path := filepath.Join(*out, name+"_vector.png")
	if err := util.SavePNG(path, res.Image.ToNRGBA()); err != nil {
		return err
	}
	util.Logger.Info("done", zap.String("image", path), zap.Strings("saved", res.Saved))
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	dir := fs.String("dir", "", "输入目录")
	pattern := fs.String("pattern", cfg.Batch.Pattern, "doublestar 匹配模式")
	workers := fs.Int("workers", cfg.Batch.Workers, "并发数")
	threshold := fs.Float64("threshold", cfg.Removal.Threshold, "颜色距离阈值 [0, 1]")
	invert := fs.Bool("invert", cfg.Removal.InvertMask, "反转掩码")
	prefix := fs.String("prefix", "batch", "输出前缀")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("-dir is required")
	}

	s, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	results, err := batch.NewRunner(s).Run(ctx, *dir, batch.Options{
		Workers:   *workers,
		Pattern:   *pattern,
		Threshold: *threshold,
		Invert:    *invert,
		Prefix:    *prefix,
	})
	if err != nil {
		return err
	}

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			util.Logger.Warn("file failed", zap.String("file", res.Path), zap.Error(res.Err))
			continue
		}
		util.Logger.Info("file done", zap.String("file", res.Path), zap.Strings("saved", res.Saved))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// loadImage 支持本地路径和 http(s) URL
func loadImage(ctx context.Context, in string) (image.Image, error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return util.DownloadImage(ctx, in)
	}
	return util.OpenImage(in)
}

func stem(in string) string {
	base := filepath.Base(in)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeOutput 写出 RGBA 图和掩码
func writeOutput(dir, name string, res *pipeline.Output) error {
	rgbaPath := filepath.Join(dir, name+"_rgba.png")
	if err := util.SavePNG(rgbaPath, res.Image.ToNRGBA()); err != nil {
		return err
	}
	maskPath := filepath.Join(dir, name+"_mask.png")
	if err := util.SavePNG(maskPath, res.Mask.ToGray()); err != nil {
		return err
	}
	util.Logger.Info("done", zap.String("image", rgbaPath), zap.String("mask", maskPath), zap.Strings("saved", res.Saved))
	return nil
}
