package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"resume-parser-go/pkg/types"
)

var (
	schoolKeyword = regexp.MustCompile(`(?i)university|college|institute|school`)
	// 缩写校名 + "City, ST"，如 "MIT, Cambridge, MA"
	institutionWithLocation = regexp.MustCompile(`^([^,]+),\s*[A-Za-z .]+,\s*[A-Z]{2}$`)

	degreeKeyword = regexp.MustCompile(`(?i)\b(?:degree|bachelor|master|ph\.?\s?d|doctor|associate|diploma|mba|computer science|data science|software engineering|engineering|science|arts|major)`)
	degreePrefix  = regexp.MustCompile(`(?i)^(?:b\.?s|b\.?a|m\.?s|m\.?a|b\.?sc|m\.?sc|b\.?e|b\.?tech|m\.?tech)\b`)
	yearPattern   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	gradeKeyword     = regexp.MustCompile(`(?i)\b(?:gpa|grade|cgpa|percentage)\b`)
	gradeKeywordVal  = regexp.MustCompile(`(?i)\b(?:gpa|grade|cgpa|percentage)\b[:\s]*([\d.]+%?)`)
	gradeRatio       = regexp.MustCompile(`\b(\d\.\d+)\s*/\s*(\d\.\d+)\b`)
	gradeStandalone  = regexp.MustCompile(`\b(\d\.\d{1,2})\b`)
	gradeCumulative  = regexp.MustCompile(`(?i)cumulative|overall|final`)
	gradeAnyDecimal  = regexp.MustCompile(`(\d\.\d+)`)
)

// 独立小数只在短行中视为绩点
const shortGradeLength = 30

// ParseEducation 将教育章节正文解析为教育经历列表，遇到新学校行时开始新的一条
func ParseEducation(lines []string) types.EducationList {
	list := types.EducationList{}
	var cur types.EducationEntry

	flush := func() {
		if cur.HasAnyData() {
			list = append(list, cur)
		}
		cur = types.EducationEntry{}
	}

	for _, raw := range lines {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		school := isSchoolLine(line)
		if school {
			flush()
		}
		if cur.School == nil && school {
			name := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
			cur.School = &name
			cur.Location = ExtractLocation(line)
		}
		if cur.Degree == nil && !school && isDegreeLine(line) {
			cur.Degree = strPtr(line)
		}
		if cur.Year == nil {
			if y := yearPattern.FindString(line); y != "" {
				cur.Year = &y
			}
		}
		if cur.Grade == nil {
			if g, ok := extractGrade(line); ok {
				cur.Grade = &g
			}
		}
	}
	flush()
	return list
}

// isSchoolLine 含学校关键词，或为 "缩写, 城市, 州" 形式且首段不是学位描述
func isSchoolLine(line string) bool {
	if schoolKeyword.MatchString(line) {
		return true
	}
	m := institutionWithLocation.FindStringSubmatch(line)
	return m != nil && !hasDigit(line) && !degreeKeyword.MatchString(m[1])
}

func isDegreeLine(line string) bool {
	return degreeKeyword.MatchString(line) || degreePrefix.MatchString(line)
}

// extractGrade 按优先级尝试：关键词前缀、分数比、短行中的独立小数、累计/总评行
func extractGrade(line string) (string, bool) {
	switch {
	case gradeKeyword.MatchString(line):
		if m := gradeKeywordVal.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	case gradeRatio.MatchString(line):
		m := gradeRatio.FindStringSubmatch(line)
		return fmt.Sprintf("%s/%s", m[1], m[2]), true
	case len(line) < shortGradeLength && gradeStandalone.MatchString(line):
		m := gradeStandalone.FindStringSubmatch(line)
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 2.0 && v <= 4.0 {
			return m[1], true
		}
	case gradeCumulative.MatchString(line) && gradeAnyDecimal.MatchString(line):
		m := gradeAnyDecimal.FindStringSubmatch(line)
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v <= 4.0 {
			return m[1], true
		}
	}
	return "", false
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}
