package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/pkg/types"
)

func TestClassifyTitle(t *testing.T) {
	testCases := []struct {
		title string
		want  types.SectionType
	}{
		{"EDUCATION", types.SectionEducation},
		{"Academic Background", types.SectionEducation},
		{"Work History", types.SectionExperience},
		{"PROJECTS EXPERIENCE", types.SectionExperience},
		{"Research Experience", types.SectionExperience},
		{"Technical Skills", types.SectionSkills},
		{"Core Competencies", types.SectionSkills},
		{"Technologies", types.SectionSkills},
		{"Professional Summary", types.SectionSummary},
		// career 先于 objective 命中
		{"Career Objective", types.SectionExperience},
		{"Projects", types.SectionProjects},
		{"Portfolio", types.SectionProjects},
		{"Certifications & Licenses", types.SectionCertifications},
		{"RESEARCH", types.SectionResearch},
		{"Hobbies", types.SectionOther},
	}
	for _, tc := range testCases {
		got, _ := ClassifyTitle(tc.title)
		assert.Equal(t, tc.want, got, tc.title)
	}
}

func TestParseSection(t *testing.T) {
	t.Run("原样保留的章节", func(t *testing.T) {
		s, ok := ParseSection([]string{" SUMMARY ", "Backend engineer.", "Likes Go."})
		require.True(t, ok)
		assert.Equal(t, "SUMMARY", deref(s.Title))
		assert.Equal(t, types.SectionSummary, s.Type)
		assert.Equal(t, types.TextLines{"Backend engineer.", "Likes Go."}, s.Content)
	})

	t.Run("经历形状的项目章节", func(t *testing.T) {
		s, ok := ParseSection([]string{"PROJECTS", "Open Source Lab, Lansing, MI", "Lead Developer", "Wrote a parser"})
		require.True(t, ok)
		assert.Equal(t, types.SectionProjects, s.Type)
		list, ok := s.Content.(types.ExperienceList)
		require.True(t, ok)
		require.Len(t, list, 1)
		assert.Equal(t, "Open Source Lab", list[0].Company)
	})

	t.Run("只有标题", func(t *testing.T) {
		s, ok := ParseSection([]string{"EDUCATION"})
		require.True(t, ok)
		assert.Equal(t, types.EducationList{}, s.Content)
	})

	t.Run("空块", func(t *testing.T) {
		_, ok := ParseSection(nil)
		assert.False(t, ok)
		_, ok = ParseSection([]string{"  "})
		assert.False(t, ok)
	})
}

func TestMergeSections(t *testing.T) {
	title := func(s string) *string { return &s }

	sections := []types.Section{
		{Title: title("EXPERIENCE"), Type: types.SectionExperience, Content: types.ExperienceList{{Company: "A"}}},
		{Title: title("SKILLS"), Type: types.SectionSkills, Content: types.SkillMap{types.SkillTools: {"Git"}}},
		{Title: title("WORK"), Type: types.SectionExperience, Content: types.ExperienceList{{Company: "B"}}},
		{Title: title("TOOLS"), Type: types.SectionSkills, Content: types.SkillMap{types.SkillTools: {"Git", "Docker"}}},
		{Title: title("Hobbies"), Type: types.SectionOther, Content: types.TextLines{"Chess"}},
		{Title: title("Interests"), Type: types.SectionOther, Content: types.TextLines{"Go"}},
	}

	merged := MergeSections(sections)
	require.Len(t, merged, 3)

	assert.Equal(t, types.SectionExperience, merged[0].Type)
	assert.Equal(t, "EXPERIENCE", deref(merged[0].Title), "保留首次出现的标题")
	assert.Equal(t, types.ExperienceList{{Company: "A"}, {Company: "B"}}, merged[0].Content)

	assert.Equal(t, types.SectionSkills, merged[1].Type)
	assert.Equal(t, types.SkillMap{types.SkillTools: {"Git", "Docker"}}, merged[1].Content)

	assert.Equal(t, types.TextLines{"Chess", "Go"}, merged[2].Content)

	filtered := FilterRecognized(merged)
	require.Len(t, filtered, 2)
	assert.Equal(t, types.SectionExperience, filtered[0].Type)
	assert.Equal(t, types.SectionSkills, filtered[1].Type)
}

func TestMergeSectionsWithoutType(t *testing.T) {
	merged := MergeSections([]types.Section{{}, {Content: types.TextLines{"x"}}})
	require.Len(t, merged, 1)
	assert.Equal(t, types.SectionType("Untitled"), merged[0].Type)
	assert.Equal(t, "Untitled", deref(merged[0].Title))
	assert.Equal(t, types.TextLines{"x"}, merged[0].Content)
}

func TestFilterRecognizedKeepsOtherWhenAlone(t *testing.T) {
	other := []types.Section{{Type: types.SectionOther, Content: types.TextLines{"x"}}}
	assert.Equal(t, other, FilterRecognized(other))
}
