package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/tracing"
)

// ResumeService 处理器需要的服务能力
type ResumeService interface {
	ProcessUpload(ctx context.Context, up processor.Upload) (*processor.Result, error)
	ParseText(ctx context.Context, text string) (*processor.Result, error)
	Health(ctx context.Context) (map[string]string, bool)
}

// ResumeHandler 简历解析接口
type ResumeHandler struct {
	service        ResumeService
	maxUploadBytes int64
	requestTimeout time.Duration
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(service ResumeService, maxUploadBytes int64, requestTimeout time.Duration) *ResumeHandler {
	return &ResumeHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		requestTimeout: requestTimeout,
	}
}

// ParseTextRequest 纯文本解析请求
type ParseTextRequest struct {
	Text string `json:"text"`
}

func (h *ResumeHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout > 0 {
		return context.WithTimeout(ctx, h.requestTimeout)
	}
	return context.WithCancel(ctx)
}

// ParseUpload POST /api/v1/resume/parse
// 表单字段优先 resume，兼容 file
func (h *ResumeHandler) ParseUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := formFile(c)
	if err != nil {
		badRequest(c, fmt.Sprintf("缺少上传文件，请使用表单字段 %q", constants.FormFieldResume), err.Error())
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		writeError(ctx, c, processor.NewFileTooLargeError("", fileHeader.Size, h.maxUploadBytes))
		return
	}

	data, err := readFormFile(fileHeader, h.maxUploadBytes)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	result, err := h.service.ProcessUpload(ctx, processor.Upload{
		SubmissionUUID: string(c.GetHeader(constants.HeaderSubmissionID)),
		Filename:       fileHeader.Filename,
		ContentType:    fileHeader.Header.Get("Content-Type"),
		Data:           data,
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("filename", tracing.SafeFilename(fileHeader.Filename)).
			Msg("简历上传解析失败")
		writeError(ctx, c, err)
		return
	}
	h.writeResult(c, result)
}

// ParseText POST /api/v1/resume/parse-text
func (h *ResumeHandler) ParseText(ctx context.Context, c *app.RequestContext) {
	var req ParseTextRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		badRequest(c, "请求体必须是 JSON: {\"text\": \"...\"}", err.Error())
		return
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	result, err := h.service.ParseText(ctx, req.Text)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	h.writeResult(c, result)
}

func (h *ResumeHandler) writeResult(c *app.RequestContext, result *processor.Result) {
	c.Header(constants.HeaderSubmissionID, result.SubmissionUUID)
	if result.Cached {
		c.Header(constants.HeaderCacheStatus, "HIT")
	} else {
		c.Header(constants.HeaderCacheStatus, "MISS")
	}
	c.JSON(consts.StatusOK, result.Resume)
}

func formFile(c *app.RequestContext) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(constants.FormFieldResume)
	if err == nil {
		return fh, nil
	}
	if alt, altErr := c.FormFile(constants.FormFieldFile); altErr == nil {
		return alt, nil
	}
	return nil, err
}

func readFormFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, processor.NewFileTooLargeError("", int64(len(data)), limit)
	}
	return data, nil
}
