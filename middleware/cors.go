package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS 包装整个 gin 引擎，预检请求在路由之前处理
func CORS(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(next)
}
