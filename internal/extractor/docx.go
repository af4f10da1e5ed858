package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPath = "word/document.xml"

// 解压后的 document.xml 上限，防止压缩炸弹
const maxDocxXMLBytes = 64 << 20

// DocxExtractor 直接读取 word/document.xml 中的段落文本
type DocxExtractor struct {
	maxXMLBytes int64
}

func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{maxXMLBytes: maxDocxXMLBytes}
}

func (d *DocxExtractor) Name() string {
	return "docx"
}

func (d *DocxExtractor) Extract(ctx context.Context, data []byte, _ string) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, failed(d.Name(), FormatDOCX, fmt.Errorf("打开 zip 失败: %w", err))
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPath {
			body = f
			break
		}
	}
	if body == nil {
		return nil, failed(d.Name(), FormatDOCX, errors.New("压缩包中没有 "+docxBodyPath))
	}

	rc, err := body.Open()
	if err != nil {
		return nil, failed(d.Name(), FormatDOCX, fmt.Errorf("打开 document.xml 失败: %w", err))
	}
	defer rc.Close()

	text, paragraphs, err := d.readParagraphs(ctx, io.LimitReader(rc, d.maxXMLBytes))
	if err != nil {
		return nil, err
	}
	return &Document{
		Text:   text,
		Format: FormatDOCX,
		Engine: d.Name(),
		Metadata: map[string]any{
			"paragraphs": paragraphs,
		},
	}, nil
}

// readParagraphs 每个 w:p 输出一行，w:tab 转为制表符，w:br/w:cr 转为换行
func (d *DocxExtractor) readParagraphs(ctx context.Context, r io.Reader) (string, int, error) {
	decoder := xml.NewDecoder(r)
	var out strings.Builder
	var inText bool
	paragraphs := 0

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, failed(d.Name(), FormatDOCX, fmt.Errorf("解析 document.xml 失败: %w", err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
				paragraphs++
				if paragraphs%512 == 0 {
					if err := ctx.Err(); err != nil {
						return "", 0, err
					}
				}
			}
		}
	}
	return out.String(), paragraphs, nil
}
