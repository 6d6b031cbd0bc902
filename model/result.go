package model

import "github.com/chaos-io/vecmask/vector"

// RemovalResult 背景移除结果
type RemovalResult struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	ImageRGBA string     `json:"image_rgba"` // base64编码的PNG
	Mask      string     `json:"mask"`       // base64编码的灰度PNG
	Reference [3]float64 `json:"reference_color,omitempty"`
	SVG       string     `json:"svg,omitempty"`
	Removed   bool       `json:"removed"`
	Area      float64    `json:"area,omitempty"`
	Bounds    *BBox      `json:"bounding_box,omitempty"`
	Coverage  float64    `json:"coverage"`
	Saved     []string   `json:"saved,omitempty"`
	Blank     bool       `json:"blank"`
	Timestamp int64      `json:"timestamp"`
}

// VectorizeResult 矢量化结果
type VectorizeResult struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Image     string   `json:"image"` // base64编码的PNG
	SVG       string   `json:"svg,omitempty"`
	Saved     []string `json:"saved,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// BBox 边界框
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ShapeRequest 形状背景移除请求
type ShapeRequest struct {
	SVG            string  `json:"svg" binding:"required"`
	Scale          float64 `json:"scale"`
	SaveSVG        *bool   `json:"save_svg"`
	FilenamePrefix string  `json:"filename_prefix"`
}

// InspectRequest 文档概况请求
type InspectRequest struct {
	SVG string `json:"svg" binding:"required"`
}

// Response 通用响应
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// InspectResponse 概况响应
type InspectResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *vector.Info `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
