package router

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/middleware"
	"resume-parser-go/internal/config"
	"resume-parser-go/pkg/ratelimit"
)

// multipart 表单边界与头部的额外开销
const multipartOverhead = 1 << 20

// NewServer 创建带链路追踪的 Hertz 服务并注册全部路由
func NewServer(cfg *config.ServerConfig, resumeHandler *handler.ResumeHandler, limiter *ratelimit.KeyedLimiter) *server.Hertz {
	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Address),
		server.WithMaxRequestBodySize(int(cfg.MaxUploadBytes)+multipartOverhead),
		server.WithExitWaitTime(5*time.Second),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	RegisterRoutes(h.Engine, cfg, resumeHandler, limiter)
	return h
}

// RegisterRoutes 注册 API 路由
// 限流与鉴权只作用于 /api/v1/resume 下的接口，健康检查始终开放
func RegisterRoutes(engine *route.Engine, cfg *config.ServerConfig, resumeHandler *handler.ResumeHandler, limiter *ratelimit.KeyedLimiter) {
	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(cfg.CORSOrigins),
	)

	engine.GET("/health", resumeHandler.Health)
	engine.OPTIONS("/*path", func(ctx context.Context, c *app.RequestContext) {
		c.Status(consts.StatusNoContent)
	})

	api := engine.Group("/api/v1")
	api.GET("/health", resumeHandler.Health)

	resume := api.Group("/resume")
	if limiter != nil {
		resume.Use(middleware.RateLimit(limiter))
	}
	if len(cfg.APIKeys) > 0 {
		resume.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
	resume.POST("/parse", resumeHandler.ParseUpload)
	resume.POST("/parse-text", resumeHandler.ParseText)
}
