package extractor

import (
	"errors"
	"fmt"
)

// 提取阶段的基础错误类型
var (
	ErrUnsupportedFormat = errors.New("不支持的文档格式")
	ErrExtractionFailed  = errors.New("文档文本提取失败")
	ErrEmptyDocument     = errors.New("文档中没有可提取的文本")
)

// ExtractError 包含提取引擎和格式信息的错误
type ExtractError struct {
	Op     string // 引擎或步骤名称
	Format Format
	Err    error // 基础错误
	Detail string
}

func (e *ExtractError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 格式:%s): %s", e.Err, e.Op, e.Format, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 格式:%s)", e.Err, e.Op, e.Format)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is 与基础错误比较
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func unsupported(op string, f Format, detail string) error {
	return &ExtractError{Op: op, Format: f, Err: ErrUnsupportedFormat, Detail: detail}
}

func failed(op string, f Format, cause error) error {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &ExtractError{Op: op, Format: f, Err: ErrExtractionFailed, Detail: detail}
}

func empty(op string, f Format) error {
	return &ExtractError{Op: op, Format: f, Err: ErrEmptyDocument}
}
