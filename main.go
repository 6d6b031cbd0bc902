package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaos-io/vecmask/config"
	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, cfg *config.Config, args []string) error
}

var commands = []command{
	{name: "serve", usage: "启动 HTTP 服务", run: runServe},
	{name: "color", usage: "按边框颜色移除背景", run: runColor},
	{name: "shape", usage: "删除 SVG 中面积最大的形状并栅格化", run: runShape},
	{name: "vectorize", usage: "位图矢量化", run: runVectorize},
	{name: "batch", usage: "批量颜色背景移除", run: runBatch},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vecmask [-config config.yaml] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.usage)
	}
}

func main() {
	flag.Usage = usage
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := util.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer util.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := flag.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(ctx, cfg, flag.Args()[1:]); err != nil {
			util.Logger.Error("command failed", zap.String("command", name), zap.Error(err))
			util.Sync()
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

// loadConfig 配置文件不存在时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}
