package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-parser-go/pkg/ratelimit"
)

// RateLimit 按客户端IP限流，超限返回 429 与 Retry-After
func RateLimit(limiter *ratelimit.KeyedLimiter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		key := c.ClientIP()
		if limiter.Allow(key) {
			c.Next(ctx)
			return
		}
		wait := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
		if wait < 1 {
			wait = 1
		}
		c.Header("Retry-After", strconv.Itoa(wait))
		c.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{
			"error":   "请求过于频繁",
			"details": "请在 " + strconv.Itoa(wait) + " 秒后重试",
		})
	}
}
