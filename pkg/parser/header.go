package parser

import (
	"strings"
	"unicode"
)

const (
	maxHeaderLength     = 50
	maxCapsHeaderLength = 25
	capsHeaderRatio     = 0.95
)

// knownHeaders 精确匹配的章节标题
var knownHeaders = map[string]bool{
	"projects experience":     true,
	"research experience":     true,
	"work experience":         true,
	"professional experience": true,
	"education":               true,
	"technical skills":        true,
	"skills":                  true,
	"summary":                 true,
	"objective":               true,
	"certifications":          true,
	"relevant coursework":     true,
	"experience":              true,
	"projects":                true,
}

// headerActionWords 单词标题中不允许出现的动作词（子串匹配）
var headerActionWords = []string{
	"led", "developed", "implemented", "created", "managed", "designed", "collaborated",
	"streamlined", "conducted", "devised", "ensured", "initiated", "contributed", "parsed",
}

// headerStopWords 全大写标题中不允许出现的词
var headerStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "to": true, "for": true, "with": true, "by": true,
	"in": true, "on": true, "at": true, "from": true,
	"led": true, "developed": true, "implemented": true, "created": true, "managed": true,
	"designed": true, "collaborated": true, "streamlined": true, "conducted": true,
	"devised": true, "ensured": true, "initiated": true, "contributed": true, "parsed": true,
	"analyzed": true, "built": true, "established": true,
}

// IsHeader 判断一行是否为章节标题
func IsHeader(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || len(s) > maxHeaderLength {
		return false
	}
	lower := strings.ToLower(s)

	if knownHeaders[lower] && !containsAny(lower, headerActionWords) {
		return true
	}
	return isCapsHeader(s, lower)
}

// isCapsHeader 短的全大写行：大写字母占比 >= 0.95，且不含数字和停用词
func isCapsHeader(s, lower string) bool {
	if len(s) > maxCapsHeaderLength {
		return false
	}
	var letters, upper int
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			return false
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 2 || float64(upper)/float64(letters) < capsHeaderRatio {
		return false
	}
	for _, w := range strings.Fields(lower) {
		if headerStopWords[w] {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
