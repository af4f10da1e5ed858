package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"resume-parser-go/internal/logger"
)

// EinoPDFExtractor 使用 Eino PDF Parser 提取文本
type EinoPDFExtractor struct {
	parser  *pdf.PDFParser
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFExtractor)

// WithEinoTimeout 单次解析的超时时间
func WithEinoTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		e.timeout = timeout
	}
}

// NewEinoPDFExtractor 初始化 Eino PDF 文本提取器
// 不按页面分割，获取整个文档的连续文本
func NewEinoPDFExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Eino PDF 解析器失败: %w", err)
	}

	e := &EinoPDFExtractor{
		parser:  p,
		timeout: 30 * time.Second,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

func (e *EinoPDFExtractor) Name() string {
	return "eino"
}

func (e *EinoPDFExtractor) Extract(ctx context.Context, data []byte, _ string) (*Document, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI("resume.pdf"),
		einoParser.WithExtraMeta(map[string]any{
			"extraction_time": start.Format(time.RFC3339),
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, failed(e.Name(), FormatPDF, err)
	}
	if len(docs) == 0 {
		return nil, empty(e.Name(), FormatPDF)
	}
	if len(docs) > 1 {
		logger.Ctx(ctx).Debug().Int("documents", len(docs)).Msg("Eino 返回了多个文档，按顺序合并")
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}

	metadata := make(map[string]any)
	if docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			metadata[k] = v
		}
	}
	metadata["document_count"] = len(docs)
	metadata["processing_duration_ms"] = time.Since(start).Milliseconds()

	return &Document{
		Text:     strings.Join(contents, "\n\n"),
		Format:   FormatPDF,
		Engine:   e.Name(),
		Metadata: metadata,
	}, nil
}
