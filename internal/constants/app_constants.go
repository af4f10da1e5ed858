package constants

import "time"

const (
	// ParserVersion 写入提交记录，规则变化时递增
	ParserVersion = "1.0"

	// DefaultCacheTTL 解析结果缓存的默认有效期
	DefaultCacheTTL = 24 * time.Hour

	// ResumeObjectKeyFormat MinIO 中原始简历的对象键: resumes/{yyyy}/{mm}/{uuid}{.ext}
	ResumeObjectKeyFormat = "resumes/%04d/%02d/%s%s"

	// EventResumeParsed 解析完成事件类型
	EventResumeParsed = "resume.parsed"

	// HeaderSubmissionID 响应中返回提交ID的头
	HeaderSubmissionID = "X-Submission-ID"
	// HeaderRequestID 请求ID头
	HeaderRequestID = "X-Request-ID"
)

// 提交记录的处理状态
const (
	StatusParsed      = "PARSED"
	StatusCached      = "CACHED"
	StatusParseFailed = "PARSE_FAILED"
)

// 简历上传表单字段，优先 resume，兼容 file
const (
	FormFieldResume = "resume"
	FormFieldFile   = "file"
)

// 鉴权与缓存相关的响应头
const (
	HeaderAPIKey      = "X-API-Key"
	HeaderCacheStatus = "X-Cache"
)
