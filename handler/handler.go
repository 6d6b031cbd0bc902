package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/chaos-io/vecmask/config"
	"github.com/chaos-io/vecmask/model"
	"github.com/chaos-io/vecmask/pipeline"
	"github.com/chaos-io/vecmask/raster"
	"github.com/chaos-io/vecmask/render"
	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/util"
	"github.com/chaos-io/vecmask/vector"
	"github.com/chaos-io/vecmask/vectorizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BackendFunc 按凭证创建矢量化后端
type BackendFunc func(creds vectorizer.Credentials) vectorizer.Vectorizer

type Handler struct {
	cfg      *config.Config
	renderer render.Renderer
	store    store.Store
	backend  BackendFunc
	shape    *pipeline.ShapeRemover
}

func NewHandler(cfg *config.Config, renderer render.Renderer, s store.Store, backend BackendFunc) *Handler {
	return &Handler{
		cfg:      cfg,
		renderer: renderer,
		store:    s,
		backend:  backend,
		shape:    pipeline.NewShapeRemover(renderer, s),
	}
}

// RemoveColor 颜色背景移除，multipart 字段 image、threshold、invert_mask
func (h *Handler) RemoveColor(c *gin.Context) {
	img, ok := h.readImage(c)
	if !ok {
		return
	}

	threshold := h.cfg.Removal.Threshold
	if v := c.PostForm("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			badRequest(c, "threshold 参数格式错误", err)
			return
		}
		threshold = f
	}
	invert := h.cfg.Removal.InvertMask
	if v := c.PostForm("invert_mask"); v != "" {
		invert = v == "true"
	}

	out, err := pipeline.RemoveColorBackground(raster.FromImage(img), threshold, invert)
	if err != nil {
		if errors.Is(err, raster.ErrInvalidThreshold) {
			badRequest(c, "threshold 取值范围为 [0, 1]", err)
			return
		}
		internalError(c, "背景移除失败", err)
		return
	}

	result, err := removalResult(out)
	if err != nil {
		internalError(c, "编码结果失败", err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data:    result,
	})
}

// RemoveShape 删除 SVG 中面积最大的 path 并栅格化
func (h *Handler) RemoveShape(c *gin.Context) {
	var req model.ShapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求参数错误", err)
		return
	}

	opts := pipeline.ShapeOptions{
		Scale:          h.cfg.Removal.Scale,
		SaveSVG:        h.cfg.Removal.SaveSVG,
		FilenamePrefix: h.cfg.Removal.FilenamePrefix,
	}
	if req.Scale != 0 {
		opts.Scale = req.Scale
	}
	if req.SaveSVG != nil {
		opts.SaveSVG = *req.SaveSVG
	}
	if req.FilenamePrefix != "" {
		opts.FilenamePrefix = req.FilenamePrefix
	}
	if opts.Scale < render.MinScale || opts.Scale > render.MaxScale {
		badRequest(c, "scale 取值范围为 [1, 16]", render.ErrInvalidScale)
		return
	}

	out := h.shape.Remove(c.Request.Context(), req.SVG, opts)
	result, err := removalResult(out)
	if err != nil {
		internalError(c, "编码结果失败", err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data:    result,
	})
}

// Vectorize 位图矢量化，multipart 字段 image、output_format、scale、api_id、api_secret
func (h *Handler) Vectorize(c *gin.Context) {
	img, ok := h.readImage(c)
	if !ok {
		return
	}

	vc := h.cfg.Vectorizer
	opts := pipeline.VectorizeOptions{
		Options:        vc.Options(),
		OutputFormat:   c.DefaultPostForm("output_format", vc.OutputFormat),
		Scale:          h.cfg.Removal.Scale,
		SaveSVG:        vc.SaveSVG,
		FilenamePrefix: vc.FilenamePrefix,
	}
	switch opts.OutputFormat {
	case pipeline.OutputSVG, pipeline.OutputPNG, pipeline.OutputScaledPNG:
	default:
		badRequest(c, "不支持的输出格式", fmt.Errorf("%w: %q", vectorizer.ErrUnsupportedFormat, opts.OutputFormat))
		return
	}
	if v := c.PostForm("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < render.MinScale || f > render.MaxScale {
			badRequest(c, "scale 取值范围为 [1, 16]", render.ErrInvalidScale)
			return
		}
		opts.Scale = f
	}

	var creds vectorizer.Credentials
	if vc.Backend == "api" {
		var err error
		creds, err = vectorizer.ResolveCredentials(vectorizer.Credentials{
			ID:     c.PostForm("api_id"),
			Secret: c.PostForm("api_secret"),
		}, vc.Credentials())
		if err != nil {
			badRequest(c, "缺少 vectorizer.ai 凭证", err)
			return
		}
	}

	var backend vectorizer.Vectorizer
	if h.backend != nil {
		backend = h.backend(creds)
	}

	out := pipeline.NewVectorizer(backend, h.renderer, h.store).Run(c.Request.Context(), img, opts)
	encoded, err := encodePNG(out.Image.ToNRGBA())
	if err != nil {
		internalError(c, "编码结果失败", err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data: &model.VectorizeResult{
			Width:     out.Image.Width,
			Height:    out.Image.Height,
			Image:     encoded,
			SVG:       out.SVG,
			Saved:     out.Saved,
			Timestamp: time.Now().Unix(),
		},
	})
}

// Inspect 返回 SVG 文档的 path 统计
func (h *Handler) Inspect(c *gin.Context) {
	var req model.InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求参数错误", err)
		return
	}

	info, err := vector.Inspect(req.SVG)
	if err != nil {
		badRequest(c, "SVG 文档无法解析", err)
		return
	}

	c.JSON(http.StatusOK, model.InspectResponse{
		Success: true,
		Message: "解析成功",
		Data:    info,
	})
}

func (h *Handler) readImage(c *gin.Context) (img image.Image, ok bool) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "请上传图片文件", err)
		return nil, false
	}

	if limit := h.cfg.Server.MaxUpload; limit > 0 && file.Size > limit {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", limit/(1024*1024)),
		})
		return nil, false
	}

	data, err := readFormFile(file)
	if err != nil {
		internalError(c, "读取文件失败", err)
		return nil, false
	}

	img, err = util.DecodeImage(data)
	if err != nil {
		badRequest(c, "不支持的文件类型，仅支持 JPEG/PNG/WebP/BMP", err)
		return nil, false
	}

	util.Logger.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.String("md5", util.BytesMD5(data)),
		zap.Int64("size", file.Size))
	return img, true
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func removalResult(out *pipeline.Output) (*model.RemovalResult, error) {
	rgba, err := encodePNG(out.Image.ToNRGBA())
	if err != nil {
		return nil, err
	}
	mask, err := encodePNG(out.Mask.ToGray())
	if err != nil {
		return nil, err
	}

	result := &model.RemovalResult{
		Width:     out.Image.Width,
		Height:    out.Image.Height,
		ImageRGBA: rgba,
		Mask:      mask,
		Reference: out.Reference,
		SVG:       out.SVG,
		Removed:   out.Removed,
		Area:      out.Area,
		Coverage:  out.Mask.Coverage(),
		Saved:     out.Saved,
		Blank:     out.Blank,
		Timestamp: time.Now().Unix(),
	}
	if rect, ok := out.Mask.Bounds(0.5); ok {
		result.Bounds = &model.BBox{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()}
	}
	return result, nil
}

func encodePNG(img image.Image) (string, error) {
	data, err := util.EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func badRequest(c *gin.Context, msg string, err error) {
	util.Logger.Warn(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Message: msg,
		Error:   err.Error(),
	})
}

func internalError(c *gin.Context, msg string, err error) {
	util.Logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Success: false,
		Message: msg,
		Error:   err.Error(),
	})
}
