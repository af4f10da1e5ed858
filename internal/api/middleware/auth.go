package middleware

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-parser-go/internal/constants"
)

var errInvalidAPIKey = errors.New("API Key 无效")

// APIKeyAuth 校验 X-API-Key 请求头
func APIKeyAuth(keys []string) app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+constants.HeaderAPIKey, ""),
		keyauth.WithContextKey("api_key"),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{
				"error":   "未授权",
				"details": err.Error(),
			})
		}),
	)
}
