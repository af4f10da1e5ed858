package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-parser-go/internal/constants"
)

var (
	corsAllowMethods  = strings.Join([]string{consts.MethodGet, consts.MethodPost, consts.MethodOptions}, ", ")
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Authorization", constants.HeaderAPIKey, constants.HeaderRequestID, constants.HeaderSubmissionID}, ", ")
	corsExposeHeaders = strings.Join([]string{constants.HeaderRequestID, constants.HeaderSubmissionID, constants.HeaderCacheStatus}, ", ")
)

// CORS 允许配置中的来源跨域访问，未配置时允许任意来源
// 预检请求直接返回 204
func CORS(origins []string) app.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.GetHeader("Origin"))
		if origin != "" {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
			c.Header("Access-Control-Max-Age", "600")
		}

		if string(c.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}
