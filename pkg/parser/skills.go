package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/pkg/types"
)

var (
	skillItemSeparator = regexp.MustCompile(`[,;|•●·/\\]`)
	skillHeaderOnly    = regexp.MustCompile(`(?i)^(?:skills?|technical skills?|technologies?|programming|languages?|tools?|expertise|competencies)$`)

	labelLanguages  = regexp.MustCompile(`(?i)programming|language`)
	labelTools      = regexp.MustCompile(`(?i)tool`)
	labelFrameworks = regexp.MustCompile(`(?i)framework|librar`)
	labelTechnical  = regexp.MustCompile(`(?i)skills?$`)

	technicalSkill = regexp.MustCompile(`(?i)\b(?:api|rest|graphql|microservices|devops|ci/cd|serverless|cloud)\b`)
	softSkill      = regexp.MustCompile(`(?i)\b(?:communication|leadership|teamwork|management|agile|scrum|problem solving)\b`)
)

var (
	knownLanguages  = []string{"javascript", "python", "java", "sql", "c#", "c++", "typescript", "ruby", "go", "php", "rust", "swift", "kotlin"}
	knownFrameworks = []string{"react", "reactjs", "node", "node.js", "express", "spring", "django", "flask", "angular", "vue", "flutter"}
	knownTools      = []string{"git", "docker", "kubernetes", "aws", "azure", "gcp", "firebase", "mysql", "postgresql", "mongodb", "redis", "jira", "postman"}
)

type skillToken struct {
	skill    string
	category types.SkillCategory
}

// ParseSkills 解析技能章节，"标签: 条目" 的标签决定首选分类，其余条目按词表推断
func ParseSkills(lines []string) types.SkillMap {
	var tokens []skillToken
	for _, raw := range lines {
		line := cleanLine(raw)
		if line == "" || skillHeaderOnly.MatchString(line) {
			continue
		}

		var category types.SkillCategory
		items := line
		if label, rest, ok := strings.Cut(line, ":"); ok {
			category = labelCategory(strings.TrimSpace(label))
			items = rest
		}
		for _, s := range splitSkillItems(items) {
			tokens = append(tokens, skillToken{skill: s, category: category})
		}
	}

	skills := types.SkillMap{}
	for _, t := range tokens {
		category := t.category
		if category == "" {
			category = categorizeSkill(t.skill)
		}
		skills.Add(category, t.skill)
	}
	return skills
}

// labelCategory 标签到首选分类，无法识别时返回空
func labelCategory(label string) types.SkillCategory {
	switch {
	case labelLanguages.MatchString(label):
		return types.SkillLanguages
	case labelTools.MatchString(label):
		return types.SkillTools
	case labelFrameworks.MatchString(label):
		return types.SkillFrameworks
	case labelTechnical.MatchString(label):
		return types.SkillTechnical
	default:
		return ""
	}
}

func splitSkillItems(text string) []string {
	var parts []string
	for _, p := range skillItemSeparator.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// categorizeSkill 词表匹配：语言（全等或以词出现）、框架、工具（子串）；再依次尝试技术和软技能关键词
func categorizeSkill(skill string) types.SkillCategory {
	s := strings.ToLower(skill)
	for _, l := range knownLanguages {
		if s == l || strings.Contains(s, l+" ") || strings.Contains(s, " "+l) {
			return types.SkillLanguages
		}
	}
	if containsAny(s, knownFrameworks) {
		return types.SkillFrameworks
	}
	if containsAny(s, knownTools) {
		return types.SkillTools
	}
	switch {
	case technicalSkill.MatchString(s):
		return types.SkillTechnical
	case softSkill.MatchString(s):
		return types.SkillSoft
	default:
		return types.SkillOther
	}
}
