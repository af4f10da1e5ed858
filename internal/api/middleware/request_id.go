package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
)

// RequestIDKey 请求上下文中保存请求ID的键
const RequestIDKey = "request_id"

// RequestID 沿用客户端传入的请求ID，没有时生成一个，并绑定到日志上下文
func RequestID() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := string(c.GetHeader(constants.HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(constants.HeaderRequestID, id)
		c.Next(logger.WithRequestID(ctx, id))
	}
}
