package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// StringPtr 返回字符串的指针，空字符串返回 nil
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref 取指针的值，nil 返回空字符串
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CalculateMD5 computes the MD5 hash of a byte slice.
func CalculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// CalculateMD5String 计算字符串的 MD5
func CalculateMD5String(s string) string {
	return CalculateMD5([]byte(s))
}

// SanitizeFilename 去掉客户端传来的路径部分，只保留文件名
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSpace(name)
}
