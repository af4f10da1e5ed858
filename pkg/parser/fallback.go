package parser

import (
	"regexp"
	"strings"
)

const (
	locationScanLines = 40
	nameScanLines     = 20
	minNameWords      = 2
	maxNameWords      = 6
	minNameLetterRate = 0.6
	maxNameUpperRate  = 0.9
)

var (
	cityStatePattern = regexp.MustCompile(`[A-Za-z][A-Za-z\s.-]+,\s*[A-Za-z]{2,}`)
	nameEmailLike    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[A-Za-z]{2,}`)
)

// FindPhone 全文扫描电话号码
func FindPhone(text string) *string {
	if v, ok := ExtractPhone(text); ok {
		return &v
	}
	return nil
}

// FindEmail 全文扫描邮箱
func FindEmail(text string) *string {
	if v, ok := ExtractEmail(text); ok {
		return &v
	}
	return nil
}

// FindLinkedIn 全文扫描 LinkedIn 地址
func FindLinkedIn(text string) *string {
	if v, ok := ExtractLinkedIn(text); ok {
		return &v
	}
	return nil
}

// FindLocation 先在前 40 行中找不含数字的 "City, ST"，找不到再扫描全文
func FindLocation(text string) *string {
	lines := SplitLines(text)
	for i := 0; i < len(lines) && i < locationScanLines; i++ {
		if hasDigit(lines[i]) {
			continue
		}
		if m := cityStatePattern.FindString(lines[i]); m != "" {
			return &m
		}
	}
	if m := cityStatePattern.FindString(text); m != "" {
		m = strings.TrimSpace(m)
		return &m
	}
	return nil
}

// FindName 在前 20 行中找第一个像姓名的行：2~6 个词、字母占比不低于 60%、不是全大写，跳过邮箱和电话行
func FindName(text string) *string {
	lines := SplitLines(text)
	for i := 0; i < len(lines) && i < nameScanLines; i++ {
		ln := lines[i]
		if nameEmailLike.MatchString(ln) || phoneCandidate.MatchString(ln) {
			continue
		}
		if looksLikeName(ln) {
			return &ln
		}
	}
	return nil
}

func looksLikeName(ln string) bool {
	words := strings.Fields(ln)
	if len(words) < minNameWords || len(words) > maxNameWords {
		return false
	}
	var letters, upper int
	for i := 0; i < len(ln); i++ {
		c := ln[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letters++
			upper++
		case c >= 'a' && c <= 'z':
			letters++
		}
	}
	if float64(letters)/float64(len(ln)) < minNameLetterRate {
		return false
	}
	return float64(upper)/float64(letters) <= maxNameUpperRate
}
