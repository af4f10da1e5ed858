package extractor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextExtractor 纯文本文件的"提取"：去掉 BOM 并校验编码
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (t *TextExtractor) Name() string {
	return "text"
}

func (t *TextExtractor) Extract(ctx context.Context, data []byte, _ string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, failed(t.Name(), FormatTXT, errInvalidUTF8)
	}
	return &Document{
		Text:   string(data),
		Format: FormatTXT,
		Engine: t.Name(),
		Metadata: map[string]any{
			"bytes": len(data),
		},
	}, nil
}

var errInvalidUTF8 = errors.New("文本不是合法的 UTF-8 编码")

// CleanText 统一换行、做 NFKC 规范化（拆开 PDF 连字），去掉控制字符和首尾空行
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == utf8.RuneError, r == '\u00ad', r == '\ufeff':
			return -1
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	return strings.Trim(s, "\n \t")
}
