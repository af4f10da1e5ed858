package parser

import (
	"regexp"
	"strings"
)

var (
	// ", City, ST" 或行尾的 ", City"
	trailingCityState = regexp.MustCompile(`,\s*([A-Za-z .]+,\s*[A-Z]{2})|,\s*([A-Za-z .]+)$`)
	lettersOnly       = regexp.MustCompile(`^[A-Za-z .]+$`)
)

var usStateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true, "DE": true,
	"FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true, "IA": true, "KS": true,
	"KY": true, "LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true, "NM": true, "NY": true,
	"NC": true, "ND": true, "OH": true, "OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

// ExtractLocation 从学校/公司行中提取地点
// 优先匹配末尾的 "City, ST"，否则检查名称之后的逗号分隔片段：州缩写或长度大于 2 的纯字母片段
func ExtractLocation(line string) *string {
	if m := trailingCityState.FindStringSubmatch(line); m != nil {
		loc := m[1]
		if loc == "" {
			loc = m[2]
		}
		if loc = strings.TrimSpace(loc); loc != "" {
			return &loc
		}
	}
	parts := strings.Split(line, ",")
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if usStateCodes[part] || (len(part) > 2 && lettersOnly.MatchString(part)) {
			return &part
		}
	}
	return nil
}
