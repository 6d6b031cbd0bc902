package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/chaos-io/vecmask/config"
	"github.com/chaos-io/vecmask/handler"
	"github.com/chaos-io/vecmask/middleware"
	"github.com/chaos-io/vecmask/render"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"github.com/chaos-io/vecmask/vectorizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", cfg.Server.Port, "监听地址")
	if err := fs.Parse(args); err != nil {
		return err
	}

	util.Logger.Info("starting vecmask server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	s, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Storage.Backend == "local" && cfg.Storage.Retention > 0 {
		janitor := store.NewJanitor(cfg.Storage.OutputDir, cfg.Storage.Retention)
		if err := janitor.Start(cfg.Storage.CleanupCron); err != nil {
			util.Logger.Warn("output cleanup disabled", zap.Error(err))
		} else {
			defer janitor.Stop()
		}
	}

	cache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	h := handler.NewHandler(cfg, render.NewOkSVG(), s, backendFunc(cfg, cache))

	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(h, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
	})

	srv := &http.Server{
		Addr:         *port,
		Handler:      middleware.CORS(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		util.Logger.Info("server starting", zap.String("port", *port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	util.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache redis 不可用时关闭缓存
func newCache(ctx context.Context, cfg *config.Config) (vectorizer.Cache, func()) {
	if !cfg.Redis.Enabled {
		return nil, func() {}
	}

	rc := vectorizer.NewRedisCache(cfg.Redis.CacheConfig())
	if err := rc.Ping(ctx); err != nil {
		util.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
		_ = rc.Close()
		return nil, func() {}
	}
	util.Logger.Info("redis connected successfully")
	return rc, func() { _ = rc.Close() }
}

// backendFunc 按配置选择远程接口或本地 gotrace
func backendFunc(cfg *config.Config, cache vectorizer.Cache) handler.BackendFunc {
	vc := cfg.Vectorizer
	return func(creds vectorizer.Credentials) vectorizer.Vectorizer {
		if vc.Backend == "local" {
			return vectorizer.NewCached(vectorizer.NewTracer(), cache)
		}
		var opts []vectorizer.APIOption
		if vc.Endpoint != "" {
			opts = append(opts, vectorizer.WithEndpoint(vc.Endpoint))
		}
		if vc.Timeout > 0 {
			opts = append(opts, vectorizer.WithTimeout(vc.Timeout))
		}
		if vc.MaxUploadSize > 0 {
			opts = append(opts, vectorizer.WithMaxUploadSize(vc.MaxUploadSize))
		}
		return vectorizer.NewCached(vectorizer.NewAPIClient(creds, opts...), cache)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Storage.Backend == "s3" {
		return store.NewS3(ctx, cfg.Storage.S3)
	}
	return store.NewLocal(cfg.Storage.OutputDir), nil
}
