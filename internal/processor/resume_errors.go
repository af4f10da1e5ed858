package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrInvalidInput = errors.New("输入无效")
	ErrFileTooLarge = errors.New("文件超过大小上限")
	ErrStorage      = errors.New("存储操作失败")
)

// ProcessError 包含处理阶段和提交ID的错误
type ProcessError struct {
	SubmissionUUID string
	Stage          string
	BaseErr        error
	Detail         string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (阶段:%s, UUID:%s): %s", e.BaseErr, e.Stage, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (阶段:%s, UUID:%s)", e.BaseErr, e.Stage, e.SubmissionUUID)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewInvalidInputError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Stage:          "validate",
		BaseErr:        ErrInvalidInput,
		Detail:         detail,
	}
}

func NewFileTooLargeError(uuid string, size, limit int64) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Stage:          "validate",
		BaseErr:        ErrFileTooLarge,
		Detail:         fmt.Sprintf("%d 字节，上限 %d 字节", size, limit),
	}
}

func NewStorageError(uuid, stage, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Stage:          stage,
		BaseErr:        ErrStorage,
		Detail:         detail,
	}
}

// NewExtractError 保留提取器返回的原始错误，便于上层按类型映射
func NewExtractError(uuid string, err error) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Stage:          "extract",
		BaseErr:        err,
	}
}
