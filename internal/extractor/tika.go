package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
)

// TikaExtractor 通过 Apache Tika Server 提取 PDF 与 DOC 文本
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	Client    *http.Client
	// 是否请求 /meta 接口补充元数据
	withMetadata bool
	// 是否保留全部元数据，否则只保留关键字段
	fullMetadata bool
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// WithTikaMetadata 配置是否提取元数据以及是否保留完整字段
func WithTikaMetadata(enabled, full bool) TikaOption {
	return func(e *TikaExtractor) {
		e.withMetadata = enabled
		e.fullMetadata = full
	}
}

// WithHTTPClient 使用自定义 HTTP 客户端
func WithHTTPClient(c *http.Client) TikaOption {
	return func(e *TikaExtractor) {
		if c != nil {
			e.Client = c
		}
	}
}

// NewTikaExtractor 创建 Tika 提取器，默认提取精简元数据
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	e := &TikaExtractor{
		ServerURL:    strings.TrimRight(serverURL, "/"),
		Client:       &http.Client{Timeout: 60 * time.Second},
		withMetadata: true,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *TikaExtractor) Name() string {
	return "tika"
}

func (e *TikaExtractor) Extract(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	format := FormatFromMIME(mimeType)
	start := time.Now()

	text, err := e.put(ctx, "/tika", data, mimeType, "text/plain")
	if err != nil {
		return nil, failed(e.Name(), format, err)
	}

	doc := &Document{
		Text:   string(text),
		Format: format,
		Engine: e.Name(),
		Metadata: map[string]any{
			"processing_duration_ms": time.Since(start).Milliseconds(),
		},
	}
	if !e.withMetadata {
		return doc, nil
	}

	meta, err := e.metadata(ctx, data, mimeType)
	if err != nil {
		// 元数据不影响正文
		logger.Ctx(ctx).Warn().Err(err).Msg("Tika 元数据提取失败，继续使用基本元数据")
		return doc, nil
	}
	for k, v := range meta {
		if e.fullMetadata || isImportantMetadata(k) {
			doc.Metadata[k] = v
		}
	}
	doc.Pages = pageCount(meta)
	return doc, nil
}

func (e *TikaExtractor) metadata(ctx context.Context, data []byte, mimeType string) (map[string]any, error) {
	body, err := e.put(ctx, "/meta", data, mimeType, "application/json")
	if err != nil {
		return nil, err
	}
	var meta map[string]any
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	return meta, nil
}

func (e *TikaExtractor) put(ctx context.Context, path string, data []byte, contentType, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", accept)

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	return body, nil
}

// Ping 检查 Tika 服务是否可用
func (e *TikaExtractor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.ServerURL+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := e.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}
	return nil
}

// 判断元数据字段是否重要
func isImportantMetadata(key string) bool {
	switch key {
	case "pdf:PDFVersion", "xmpTPg:NPages", "dcterms:created", "language",
		"dc:title", "Content-Type", "meta:page-count", "pdf:totalUnmappedUnicodeChars":
		return true
	}
	return false
}

// pageCount Tika 的数值字段可能是字符串或数组
func pageCount(meta map[string]any) int {
	for _, key := range []string{"xmpTPg:NPages", "meta:page-count"} {
		switch v := meta[key].(type) {
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		case float64:
			return int(v)
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					if n, err := strconv.Atoi(s); err == nil {
						return n
					}
				}
			}
		}
	}
	return 0
}
