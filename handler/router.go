package handler

import (
	"net/http"

	"github.com/chaos-io/vecmask/middleware"
	"github.com/gin-gonic/gin"
)

// BuildInfo 版本信息，由 main 在编译时注入
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GitBranch string `json:"git_branch"`
}

// NewRouter 注册全部路由
func NewRouter(h *Handler, info BuildInfo) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": info.Version,
		})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	})

	api := r.Group("/api/v1")
	{
		api.POST("/remove/color", h.RemoveColor)
		api.POST("/remove/shape", h.RemoveShape)
		api.POST("/vectorize", h.Vectorize)
		api.POST("/inspect", h.Inspect)
	}
	return r
}
