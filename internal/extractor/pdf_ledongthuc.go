package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucPDFExtractor 纯 Go 的 PDF 文本提取，作为 Eino 之外的备用引擎
type LedongthucPDFExtractor struct{}

func NewLedongthucPDFExtractor() *LedongthucPDFExtractor {
	return &LedongthucPDFExtractor{}
}

func (l *LedongthucPDFExtractor) Name() string {
	return "ledongthuc"
}

func (l *LedongthucPDFExtractor) Extract(ctx context.Context, data []byte, _ string) (doc *Document, err error) {
	// 该库在畸形文件上可能 panic
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, failed(l.Name(), FormatPDF, fmt.Errorf("解析 PDF 时发生 panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, failed(l.Name(), FormatPDF, fmt.Errorf("打开 PDF 失败: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := l.pageText(ctx, r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Text:   text,
		Format: FormatPDF,
		Engine: l.Name(),
		Pages:  r.NumPage(),
	}, nil
}

// pageText 逐页按行拼接文本，单页失败时整体退回 GetPlainText
func (l *LedongthucPDFExtractor) pageText(ctx context.Context, r *pdf.Reader) (string, error) {
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return l.plainText(r)
		}
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (l *LedongthucPDFExtractor) plainText(r *pdf.Reader) (string, error) {
	b, err := r.GetPlainText()
	if err != nil {
		return "", failed(l.Name(), FormatPDF, fmt.Errorf("读取 PDF 文本失败: %w", err))
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", failed(l.Name(), FormatPDF, fmt.Errorf("读取 PDF 文本失败: %w", err))
	}
	return buf.String(), nil
}
