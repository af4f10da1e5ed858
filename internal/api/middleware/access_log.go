package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/rs/zerolog"

	"resume-parser-go/internal/logger"
)

// AccessLog 记录每个请求的方法、路径、状态码与耗时
func AccessLog() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		status := c.Response.StatusCode()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Ctx(ctx).Error()
		case status >= 400:
			event = logger.Ctx(ctx).Warn()
		default:
			event = logger.Ctx(ctx).Info()
		}
		event.
			Str("method", string(c.Method())).
			Str("path", string(c.Path())).
			Int("status", status).
			Str("client_ip", c.ClientIP()).
			Int("resp_bytes", len(c.Response.Body())).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(RequestIDKey)).
			Msg("HTTP请求")
	}
}
