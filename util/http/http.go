// Package http 对外部 HTTP 接口的统一调用封装。
package http

import (
	"context"
	"time"
)

type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam 单次请求参数，Header 会覆盖按 Body 类型推断出的 Content-Type
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       any
	Response   any

	// Timeout 大于 0 时覆盖客户端默认超时
	Timeout time.Duration
}
