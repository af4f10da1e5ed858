package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SectionType 表示简历章节的语义类型
type SectionType string

const (
	// SectionEducation 教育经历
	SectionEducation SectionType = "Education"
	// SectionExperience 工作经历
	SectionExperience SectionType = "Experience"
	// SectionSkills 技能
	SectionSkills SectionType = "Skills"
	// SectionSummary 个人简介，原样保留
	SectionSummary SectionType = "Summary"
	// SectionProjects 项目经历，结构同工作经历
	SectionProjects SectionType = "Projects"
	// SectionCertifications 证书，原样保留
	SectionCertifications SectionType = "Certifications"
	// SectionResearch 研究经历，结构同工作经历
	SectionResearch SectionType = "Research"
	// SectionOther 未识别章节，原样保留
	SectionOther SectionType = "Other"
)

// RecognizedSectionTypes 合并后需要保留的章节类型
var RecognizedSectionTypes = []SectionType{
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionSummary,
	SectionProjects,
	SectionCertifications,
	SectionResearch,
}

// IsRecognized 判断章节类型是否属于保留集合
func (t SectionType) IsRecognized() bool {
	for _, r := range RecognizedSectionTypes {
		if r == t {
			return true
		}
	}
	return false
}

// SkillCategory 技能分类
type SkillCategory string

const (
	SkillLanguages  SkillCategory = "languages"
	SkillFrameworks SkillCategory = "frameworks"
	SkillTools      SkillCategory = "tools"
	SkillTechnical  SkillCategory = "technical"
	SkillSoft       SkillCategory = "soft"
	SkillOther      SkillCategory = "other"
)

// SkillCategoryOrder 技能分类的输出顺序
var SkillCategoryOrder = []SkillCategory{
	SkillLanguages,
	SkillFrameworks,
	SkillTools,
	SkillTechnical,
	SkillSoft,
	SkillOther,
}

// ParsedResume 一次解析的完整结果
type ParsedResume struct {
	Name     *string   `json:"name"`
	Location *string   `json:"location"`
	Phone    *string   `json:"phone"`
	Email    *string   `json:"email"`
	LinkedIn *string   `json:"linkedin"`
	Sections []Section `json:"sections"`
}

// NewParsedResume 返回字段全部为空、章节为空数组的结果
func NewParsedResume() *ParsedResume {
	return &ParsedResume{Sections: []Section{}}
}

// MarshalJSON 保证 sections 始终序列化为数组
func (r ParsedResume) MarshalJSON() ([]byte, error) {
	type alias ParsedResume
	if r.Sections == nil {
		r.Sections = []Section{}
	}
	return json.Marshal(alias(r))
}

// SectionByType 返回指定类型的第一个章节
func (r *ParsedResume) SectionByType(t SectionType) (*Section, bool) {
	for i := range r.Sections {
		if r.Sections[i].Type == t {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// SectionContent 章节内容，具体形状由章节类型决定
type SectionContent interface {
	// Len 返回内容中条目数量
	Len() int
	isSectionContent()
}

// EducationList 教育经历列表
type EducationList []EducationEntry

// ExperienceList 工作/项目/研究经历列表
type ExperienceList []ExperienceCompany

// TextLines 原样保留的文本行
type TextLines []string

// SkillMap 分类 -> 技能列表（分类内去重，保持插入顺序）
type SkillMap map[SkillCategory][]string

func (l EducationList) Len() int  { return len(l) }
func (l ExperienceList) Len() int { return len(l) }
func (l TextLines) Len() int      { return len(l) }

// Len 返回所有分类的技能总数
func (m SkillMap) Len() int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

func (EducationList) isSectionContent()  {}
func (ExperienceList) isSectionContent() {}
func (TextLines) isSectionContent()      {}
func (SkillMap) isSectionContent()       {}

// Add 向分类中追加技能，已存在的完全相同字符串会被忽略
func (m SkillMap) Add(category SkillCategory, skill string) bool {
	for _, s := range m[category] {
		if s == skill {
			return false
		}
	}
	m[category] = append(m[category], skill)
	return true
}

// orderedCategories 按固定顺序返回非空分类，未知分类按字母序排在最后
func (m SkillMap) orderedCategories() []SkillCategory {
	cats := make([]SkillCategory, 0, len(m))
	known := make(map[SkillCategory]bool, len(SkillCategoryOrder))
	for _, c := range SkillCategoryOrder {
		known[c] = true
		if len(m[c]) > 0 {
			cats = append(cats, c)
		}
	}
	var extra []SkillCategory
	for c, v := range m {
		if !known[c] && len(v) > 0 {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(cats, extra...)
}

// MarshalJSON 按固定分类顺序输出，省略空分类
func (m SkillMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.orderedCategories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m[c])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EducationEntry 一段教育经历
type EducationEntry struct {
	School   *string `json:"school"`
	Degree   *string `json:"degree"`
	Year     *string `json:"year"`
	Grade    *string `json:"grade"`
	Location *string `json:"location"`
}

// HasAnyData 是否至少有一个字段被填充
func (e EducationEntry) HasAnyData() bool {
	return e.School != nil || e.Degree != nil || e.Year != nil || e.Grade != nil || e.Location != nil
}

// ExperienceCompany 同一雇主（公司+地点）下的经历
type ExperienceCompany struct {
	Company   string     `json:"company"`
	Duration  *string    `json:"duration"`
	Location  *string    `json:"location"`
	Positions []Position `json:"positions"`
}

// Position 职位及其职责
type Position struct {
	Title            string   `json:"title"`
	Responsibilities []string `json:"responsibilities"`
}

// Section 一个解析后的章节
type Section struct {
	Title   *string        `json:"title"`
	Type    SectionType    `json:"type"`
	Content SectionContent `json:"content"`
}

// ContentFor 返回章节类型对应的空内容
func ContentFor(t SectionType) SectionContent {
	switch t {
	case SectionEducation:
		return EducationList{}
	case SectionExperience, SectionProjects, SectionResearch:
		return ExperienceList{}
	case SectionSkills:
		return SkillMap{}
	default:
		return TextLines{}
	}
}

// MarshalJSON 内容为空时输出该类型的空值而不是 null
func (s Section) MarshalJSON() ([]byte, error) {
	content := s.Content
	if content == nil || content.Len() == 0 {
		content = ContentFor(s.Type)
	}
	return json.Marshal(struct {
		Title   *string        `json:"title"`
		Type    SectionType    `json:"type"`
		Content SectionContent `json:"content"`
	}{s.Title, s.Type, content})
}

// UnmarshalJSON 根据 type 字段还原内容的具体形状
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title   *string         `json:"title"`
		Type    SectionType     `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Title = raw.Title
	s.Type = raw.Type

	content := ContentFor(raw.Type)
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		s.Content = content
		return nil
	}
	var err error
	switch c := content.(type) {
	case EducationList:
		err = json.Unmarshal(raw.Content, &c)
		content = c
	case ExperienceList:
		err = json.Unmarshal(raw.Content, &c)
		content = c
	case SkillMap:
		err = json.Unmarshal(raw.Content, &c)
		content = c
	case TextLines:
		err = json.Unmarshal(raw.Content, &c)
		content = c
	}
	if err != nil {
		return fmt.Errorf("解析章节 %s 内容失败: %w", raw.Type, err)
	}
	s.Content = content
	return nil
}
