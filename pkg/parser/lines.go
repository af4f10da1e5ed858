package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// blankLineSplitter 按空行切分文本块
var blankLineSplitter = regexp.MustCompile(`\r?\n\s*\r?\n`)

// NormalizeText 统一换行符并做 NFKC 归一化（PDF 提取出的连字、全角字符、不间断空格等）
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFKC.String(text)
}

// SplitLines 按行切分，去除首尾空白并丢弃空行
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// SplitBlocks 按空行切分文本块，每块内部再按行切分；空块被丢弃
func SplitBlocks(text string) [][]string {
	var blocks [][]string
	for _, b := range blankLineSplitter.Split(text, -1) {
		if lines := SplitLines(b); len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}
	return blocks
}

// truncateAtLine 将文本截断到 max 字节以内的最后一个换行处
func truncateAtLine(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := strings.LastIndexByte(text[:max], '\n')
	if cut < 0 {
		return ""
	}
	return text[:cut]
}

// cleanLine 去掉行首的项目符号
func cleanLine(line string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
}

var (
	bulletPrefix = regexp.MustCompile(`^[-•●▪◦*\s]+`)
	bulletStart  = regexp.MustCompile(`^[-•●▪◦*]`)
)

// startsWithBullet 行是否以项目符号开头
func startsWithBullet(line string) bool {
	return bulletStart.MatchString(strings.TrimSpace(line))
}
