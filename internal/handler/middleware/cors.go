package middleware

import (
	"log/slog"
	"slices"

	"storefront-checkout/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// The storefront shows the request id when a checkout fails, so the browser
// must be allowed to send and read it.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowHeaders := withHeader(cfg.AllowHeaders, requestIDHeader)
	exposeHeaders := withHeader(cfg.ExposeHeaders, requestIDHeader)

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", cfg.AllowOrigins,
		"expose_headers", exposeHeaders)
	return cors.New(corsCfg)
}

func withHeader(headers []string, name string) []string {
	if slices.Contains(headers, name) {
		return headers
	}
	return append(slices.Clone(headers), name)
}
