package parser

import (
	"strings"

	"resume-parser-go/pkg/types"
)

// sectionRoute 标题关键词组到章节类型和正文解析器的映射
type sectionRoute struct {
	keywords []string
	typ      types.SectionType
	parse    func(lines []string) types.SectionContent
}

func verbatim(lines []string) types.SectionContent {
	out := make(types.TextLines, len(lines))
	copy(out, lines)
	return out
}

func educationContent(lines []string) types.SectionContent  { return ParseEducation(lines) }
func experienceContent(lines []string) types.SectionContent { return ParseExperience(lines) }
func skillsContent(lines []string) types.SectionContent     { return ParseSkills(lines) }

// sectionRoutes 按优先级排列，第一组命中即生效
var sectionRoutes = []sectionRoute{
	{[]string{"education", "academic"}, types.SectionEducation, educationContent},
	{[]string{"experience", "work", "employment", "career"}, types.SectionExperience, experienceContent},
	{[]string{"skill", "competenc", "technolog", "technical"}, types.SectionSkills, skillsContent},
	{[]string{"summary", "profile", "objective"}, types.SectionSummary, verbatim},
	{[]string{"project", "portfolio"}, types.SectionProjects, experienceContent},
	{[]string{"certif", "license"}, types.SectionCertifications, verbatim},
	{[]string{"research"}, types.SectionResearch, experienceContent},
}

// ParseSection 根据章节块的标题行确定类型并解析正文；空块返回 false
func ParseSection(block []string) (types.Section, bool) {
	if len(block) == 0 {
		return types.Section{}, false
	}
	title := strings.TrimSpace(block[0])
	if title == "" {
		return types.Section{}, false
	}
	body := block[1:]

	typ, parse := ClassifyTitle(title)
	return types.Section{
		Title:   &title,
		Type:    typ,
		Content: parse(body),
	}, true
}

// ClassifyTitle 返回标题对应的章节类型及正文解析器
func ClassifyTitle(title string) (types.SectionType, func([]string) types.SectionContent) {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, r := range sectionRoutes {
		if containsAny(lower, r.keywords) {
			return r.typ, r.parse
		}
	}
	return types.SectionOther, verbatim
}
