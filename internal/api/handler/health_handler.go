package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Health GET /health 与 /api/v1/health
// verbose=1 时附带各组件的检查结果，任一组件失败返回 503
func (h *ResumeHandler) Health(ctx context.Context, c *app.RequestContext) {
	verbose := c.Query("verbose")
	if verbose != "1" && verbose != "true" {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
		return
	}

	components, healthy := h.service.Health(ctx)
	if !healthy {
		c.JSON(consts.StatusServiceUnavailable, utils.H{"status": "degraded", "components": components})
		return
	}
	c.JSON(consts.StatusOK, utils.H{"status": "ok", "components": components})
}
