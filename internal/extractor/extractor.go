package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
)

// Document 提取结果
type Document struct {
	Text     string         `json:"text"`
	Format   Format         `json:"format"`
	Engine   string         `json:"engine"`
	Pages    int            `json:"pages,omitempty"` // 0 表示未知
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Extractor 从文档字节中提取纯文本
type Extractor interface {
	Name() string
	Extract(ctx context.Context, data []byte, mimeType string) (*Document, error)
}

// Chain 按顺序尝试多个提取器，返回第一个得到非空文本的结果
type Chain struct {
	extractors []Extractor
}

// NewChain 创建提取器链，nil 成员会被忽略
func NewChain(extractors ...Extractor) *Chain {
	c := &Chain{}
	for _, e := range extractors {
		if e != nil {
			c.extractors = append(c.extractors, e)
		}
	}
	return c
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.extractors))
	for _, e := range c.extractors {
		names = append(names, e.Name())
	}
	return strings.Join(names, "+")
}

// Extract 前一个提取器失败或返回空文本时尝试下一个
func (c *Chain) Extract(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	var lastErr error
	for i, e := range c.extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := e.Extract(ctx, data, mimeType)
		if err == nil && strings.TrimSpace(doc.Text) != "" {
			return doc, nil
		}
		if err == nil {
			err = empty(e.Name(), FormatFromMIME(mimeType))
		}
		lastErr = err
		if i < len(c.extractors)-1 {
			logger.Ctx(ctx).Warn().Err(err).Str("engine", e.Name()).Msg("提取失败，尝试备用引擎")
		}
	}
	if lastErr == nil {
		return nil, unsupported("chain", FormatFromMIME(mimeType), "没有可用的提取器")
	}
	return nil, lastErr
}

// Router 按文档格式选择提取器
type Router struct {
	routes map[Format]Extractor
}

// NewRouter 创建空路由
func NewRouter() *Router {
	return &Router{routes: make(map[Format]Extractor)}
}

// Handle 为格式注册提取器，传入 nil 会移除该格式
func (r *Router) Handle(f Format, e Extractor) *Router {
	if e == nil {
		delete(r.routes, f)
		return r
	}
	r.routes[f] = e
	return r
}

// Supports 是否为该格式注册了提取器
func (r *Router) Supports(f Format) bool {
	_, ok := r.routes[f]
	return ok
}

func (r *Router) Name() string {
	return "router"
}

// Extract 实现 Extractor，只根据声明的 MIME 类型和内容判断格式
func (r *Router) Extract(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	return r.ExtractFile(ctx, data, mimeType, "")
}

// ExtractFile 识别格式后交给对应的提取器，并对结果做统一的文本规范化
func (r *Router) ExtractFile(ctx context.Context, data []byte, mimeType, filename string) (*Document, error) {
	if len(data) == 0 {
		return nil, empty("router", FormatFromFilename(filename))
	}
	det, err := DetectFormat(data, mimeType, filename)
	if err != nil {
		return nil, err
	}
	e, ok := r.routes[det.Format]
	if !ok {
		return nil, unsupported("router", det.Format, "没有为该格式配置提取器")
	}

	start := time.Now()
	doc, err := e.Extract(ctx, data, det.Format.MIME())
	if err != nil {
		var xe *ExtractError
		if errors.As(err, &xe) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, failed(e.Name(), det.Format, err)
	}

	doc.Text = CleanText(doc.Text)
	if doc.Text == "" {
		return nil, empty(e.Name(), det.Format)
	}
	doc.Format = det.Format
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["sniffed_mime"] = det.SniffedMIME
	doc.Metadata["extraction_ms"] = time.Since(start).Milliseconds()

	logger.Ctx(ctx).Debug().
		Str("format", string(det.Format)).
		Str("engine", doc.Engine).
		Int("chars", len(doc.Text)).
		Msg("文档文本提取完成")
	return doc, nil
}
