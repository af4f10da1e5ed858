package processor

import (
	"context"

	"resume-parser-go/internal/extractor"
	"resume-parser-go/pkg/types"
)

// DocumentExtractor 从上传文件中提取纯文本
type DocumentExtractor interface {
	ExtractFile(ctx context.Context, data []byte, mimeType, filename string) (*extractor.Document, error)
}

// ResumeParser 把纯文本解析为结构化简历
type ResumeParser interface {
	Parse(text string) *types.ParsedResume
}

// Pinger 可做健康检查的组件
type Pinger interface {
	Ping(ctx context.Context) error
}

// Upload 一次上传请求
type Upload struct {
	SubmissionUUID string // 可选，调用方提供合法 UUID 时沿用
	Filename       string
	ContentType    string
	Data           []byte
}

// Result 处理结果
type Result struct {
	SubmissionUUID string              `json:"submission_uuid"`
	Resume         *types.ParsedResume `json:"resume"`
	Cached         bool                `json:"cached"`
	Format         extractor.Format    `json:"format,omitempty"`
	ObjectKey      string              `json:"object_key,omitempty"`
}
