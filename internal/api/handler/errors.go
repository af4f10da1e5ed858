package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
)

// ErrorResponse 统一的错误响应体
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor 把处理错误映射为 HTTP 状态码和对外消息
func statusFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		resp := ErrorResponse{Error: "不支持的文件格式，仅接受 PDF、DOCX、DOC、TXT"}
		var extractErr *extractor.ExtractError
		if errors.As(err, &extractErr) {
			resp.Details = extractErr.Detail
		}
		return consts.StatusUnsupportedMediaType, resp
	case errors.Is(err, extractor.ErrEmptyDocument), errors.Is(err, extractor.ErrExtractionFailed):
		return consts.StatusUnprocessableEntity, ErrorResponse{Error: "无法从文件中提取文本", Details: err.Error()}
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge, ErrorResponse{Error: "文件过大", Details: err.Error()}
	case errors.Is(err, processor.ErrInvalidInput):
		return consts.StatusBadRequest, ErrorResponse{Error: "请求无效", Details: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return consts.StatusGatewayTimeout, ErrorResponse{Error: "处理超时"}
	default:
		return consts.StatusInternalServerError, ErrorResponse{Error: "内部错误"}
	}
}

func writeError(ctx context.Context, c *app.RequestContext, err error) {
	status, resp := statusFor(err)
	if status >= consts.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Int("status", status).Msg("请求处理失败")
	}
	c.JSON(status, resp)
}

func badRequest(c *app.RequestContext, msg, details string) {
	c.JSON(consts.StatusBadRequest, utils.H{"error": msg, "details": details})
}
