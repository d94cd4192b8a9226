package handlers

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardrobe-matcher/middleware"
)

const (
	EndPointHome     = "/"
	EndPointHealth   = "/health"
	EndPointMetrics  = "/metrics"
	EndPointPrompt   = "/prompt"
	EndPointAIPrompt = "/ai/prompt"
)

// RouterOptions holds the cross-cutting settings of the HTTP layer.
type RouterOptions struct {
	AllowedOrigins     string
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxMultipartMemory int64
}

// NewRouter wires middleware and routes around h.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	if opts.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	limiter := middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute, opts.RateLimitBurst)

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimitMiddleware(limiter, time.Minute),
		middleware.ErrorHandler(),
	)

	router.GET(EndPointHome, h.Home)
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	router.POST(EndPointPrompt, h.CreatePrompt)
	router.POST("/api/v1"+EndPointPrompt, h.CreatePrompt)
	router.POST(EndPointAIPrompt, h.AIPrompt)

	return router
}
