package parser

import (
	"github.com/rs/zerolog/log"

	"resume-parser-go/pkg/types"
)

const untitledSection = "Untitled"

// MergeSections 将同类型章节合并为一个，内容按出现顺序拼接，保留各类型首次出现的顺序
func MergeSections(sections []types.Section) []types.Section {
	merged := make([]types.Section, 0, len(sections))
	index := make(map[string]int, len(sections))

	for _, s := range sections {
		key := sectionKey(s)
		i, ok := index[key]
		if !ok {
			if s.Type == "" {
				s.Type = types.SectionType(key)
			}
			if s.Title == nil {
				t := key
				s.Title = &t
			}
			if s.Content == nil {
				s.Content = types.ContentFor(s.Type)
			}
			index[key] = len(merged)
			merged = append(merged, s)
			continue
		}
		merged[i].Content = mergeContent(merged[i].Content, s.Content)
	}
	return merged
}

// FilterRecognized 仅保留可识别的章节类型；过滤后为空时返回原列表
func FilterRecognized(sections []types.Section) []types.Section {
	filtered := make([]types.Section, 0, len(sections))
	for _, s := range sections {
		if s.Type.IsRecognized() {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return sections
	}
	return filtered
}

func sectionKey(s types.Section) string {
	switch {
	case s.Type != "":
		return string(s.Type)
	case s.Title != nil && *s.Title != "":
		return *s.Title
	default:
		return untitledSection
	}
}

// mergeContent 拼接两段同形状的内容；技能按分类取并集，经历按雇主重新归并
func mergeContent(dst, src types.SectionContent) types.SectionContent {
	if src == nil {
		return dst
	}
	switch d := dst.(type) {
	case types.EducationList:
		if s, ok := src.(types.EducationList); ok {
			return append(d, s...)
		}
	case types.ExperienceList:
		if s, ok := src.(types.ExperienceList); ok {
			// 跨章节的同一雇主也要归并
			return consolidateCompanies(append(d, s...))
		}
	case types.TextLines:
		if s, ok := src.(types.TextLines); ok {
			return append(d, s...)
		}
	case types.SkillMap:
		if s, ok := src.(types.SkillMap); ok {
			for c, skills := range s {
				for _, skill := range skills {
					d.Add(c, skill)
				}
			}
			return d
		}
	}
	log.Debug().Msgf("章节合并: 内容形状不一致 %T / %T，保留先出现的内容", dst, src)
	return dst
}
