package parser

import (
	"regexp"
	"strings"
)

// 个人信息最多参考姓名之后的行数
const personalDetailLines = 4

var (
	// 竖线、项目符号、中点、连字符/破折号、斜杠统一视为分隔符
	personalSeparators = regexp.MustCompile(`[|•·∙‧\-–—‒/]+`)
	contactLabelPrefix = regexp.MustCompile(`(?i)^(?:phone|mobile|tel)\s*:?\s*`)

	phoneCandidate  = regexp.MustCompile(`[+]?[(]?[0-9]{1,4}[)]?[0-9\s\-.]{5,}`)
	emailPattern    = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[^\s@]+`)
	emailWrapping   = regexp.MustCompile(`^[<(\["']+|[>)\]"'.,;:]+$`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/(?:in|pub|company)/[A-Za-z0-9_\-/%.]+`)
	linkedInTrail   = regexp.MustCompile(`[).,;]+$`)
	urlScheme       = regexp.MustCompile(`(?i)^https?://`)
	locationToken   = regexp.MustCompile(`[A-Za-z]{2,}(?:,\s*|\s+)[A-Za-z]{2,}`)
)

// PersonalInfo 个人联系信息，未识别的字段为 nil
type PersonalInfo struct {
	Name     *string
	Location *string
	Phone    *string
	Email    *string
	LinkedIn *string
}

// ExtractPersonalInfo 从个人信息行中提取姓名和联系方式
// 第 0 行无条件作为姓名；之后最多 4 行按分隔符拆成片段，依次尝试电话、邮箱、LinkedIn、地点
func ExtractPersonalInfo(lines []string) PersonalInfo {
	var info PersonalInfo
	if len(lines) == 0 {
		return info
	}
	if name := strings.TrimSpace(lines[0]); name != "" {
		info.Name = &name
	}
	if len(lines) < 2 {
		return info
	}

	end := min(len(lines), 1+personalDetailLines)
	details := strings.Join(lines[1:end], " | ")
	for _, token := range strings.Split(personalSeparators.ReplaceAllString(details, "|"), "|") {
		token = strings.TrimSpace(contactLabelPrefix.ReplaceAllString(strings.TrimSpace(token), ""))
		if token == "" {
			continue
		}
		info.assignToken(token)
	}
	return info
}

// assignToken 片段只归属于第一个匹配且尚未填充的字段
func (p *PersonalInfo) assignToken(token string) {
	if p.Phone == nil {
		if v, ok := ExtractPhone(token); ok {
			p.Phone = &v
			return
		}
	}
	if p.Email == nil {
		if v, ok := ExtractEmail(token); ok {
			p.Email = &v
			return
		}
	}
	if p.LinkedIn == nil {
		if v, ok := ExtractLinkedIn(token); ok {
			p.LinkedIn = &v
			return
		}
	}
	if p.Location == nil && IsLocation(token) {
		loc := token
		p.Location = &loc
	}
}

// ExtractPhone 返回第一个数字个数在 10~15 之间的候选号码
func ExtractPhone(text string) (string, bool) {
	for _, c := range phoneCandidate.FindAllString(text, -1) {
		if n := countDigits(c); n >= 10 && n <= 15 {
			return strings.TrimSpace(c), true
		}
	}
	return "", false
}

// ExtractEmail 返回第一个邮箱，去掉两侧的括号和标点
func ExtractEmail(text string) (string, bool) {
	m := emailWrapping.ReplaceAllString(emailPattern.FindString(text), "")
	return m, m != ""
}

// ExtractLinkedIn 返回第一个 LinkedIn 地址，统一补全 https:// 前缀
func ExtractLinkedIn(text string) (string, bool) {
	m := linkedInPattern.FindString(text)
	if m == "" {
		return "", false
	}
	url := linkedInTrail.ReplaceAllString(m, "")
	if !urlScheme.MatchString(url) {
		url = "https://" + strings.TrimPrefix(url, "//")
	}
	return url, true
}

// IsLocation 至少两个字母、逗号或空格、再两个字母，且不含数字
func IsLocation(token string) bool {
	return locationToken.MatchString(token) && !hasDigit(token)
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

func hasDigit(s string) bool {
	return countDigits(s) > 0
}
