package parser

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/pkg/types"
)

const janeDoeResume = "Jane Doe\nSan Francisco, CA | (415) 555-0100 | jane@x.com | linkedin.com/in/janedoe\n\nEDUCATION\nMIT, Cambridge, MA\nBachelor of Science, Computer Science\n2020\nGPA: 3.8\n\nEXPERIENCE\nAcme Corp, San Francisco, CA 2020 - Present\nSoftware Engineer\n- Built things"

const messyResume = `John Q. Public
Austin, TX • john.public@mail.com

SUMMARY
Backend engineer focused on payments.

EXPERIENCE
Initech LLC, Austin, TX 2019 - 2021
Software Engineer
• Designed ledger service
• Reduced settlement time by 30%

SKILLS
Languages: Go, Python
Tools: Docker, Git

WORK EXPERIENCE
Initech LLC, Austin, TX 2017 - 2021
Junior Developer
• Wrote unit tests

EDUCATION
University of Texas at Austin, Austin, TX
B.S. Computer Science
2017

TECHNICAL SKILLS
Go, Kubernetes, Docker, Leadership

HOBBIES
Chess`

func TestParseScenarioJaneDoe(t *testing.T) {
	r := Parse(janeDoeResume)

	assert.Equal(t, "Jane Doe", deref(r.Name))
	assert.Equal(t, "(415) 555-0100", deref(r.Phone))
	assert.Equal(t, "jane@x.com", deref(r.Email))
	assert.Equal(t, "https://linkedin.com/in/janedoe", deref(r.LinkedIn))
	assert.Equal(t, "San Francisco, CA", deref(r.Location))

	require.Len(t, r.Sections, 2)

	edu, ok := r.SectionByType(types.SectionEducation)
	require.True(t, ok)
	entries := edu.Content.(types.EducationList)
	require.Len(t, entries, 1)
	assert.Equal(t, "MIT", deref(entries[0].School))
	assert.Equal(t, "2020", deref(entries[0].Year))
	assert.Equal(t, "3.8", deref(entries[0].Grade))

	exp, ok := r.SectionByType(types.SectionExperience)
	require.True(t, ok)
	companies := exp.Content.(types.ExperienceList)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme Corp", companies[0].Company)
	assert.Equal(t, "2020 - Present", deref(companies[0].Duration))
	require.Len(t, companies[0].Positions, 1)
	assert.Equal(t, "Software Engineer", companies[0].Positions[0].Title)
	assert.Equal(t, []string{"Built things"}, companies[0].Positions[0].Responsibilities)
}

func TestParseScenarioSkills(t *testing.T) {
	r := Parse("SKILLS\nLanguages: Python, JavaScript\nTools: Git, Docker")

	require.Len(t, r.Sections, 1)
	s := r.Sections[0]
	assert.Equal(t, types.SectionSkills, s.Type)
	assert.Equal(t, types.SkillMap{
		types.SkillLanguages: {"Python", "JavaScript"},
		types.SkillTools:     {"Git", "Docker"},
	}, s.Content)
}

func TestParseWithoutHeadersFallsBackToTextScan(t *testing.T) {
	text := strings.Join([]string{
		"John Smith",
		"Backend developer with a decade of experience building services",
		"Focused on reliability and clean interfaces",
		"Open source maintainer",
		"Mentor and speaker",
		"Contact: john.smith@example.com, (212) 555-0199",
	}, "\n")

	r := Parse(text)
	assert.Equal(t, "John Smith", deref(r.Name))
	assert.Equal(t, "john.smith@example.com", deref(r.Email))
	assert.Equal(t, "(212) 555-0199", deref(r.Phone))
	assert.NotNil(t, r.Sections)
	assert.Empty(t, r.Sections)
}

func TestParseBlankLineFallback(t *testing.T) {
	text := "Jane Roe\njane@roe.dev\n\nWhere I worked\nInitech LLC, Austin, TX 2019 - 2021\nSoftware Engineer\n- Shipped code"

	r := Parse(text)
	assert.Equal(t, "Jane Roe", deref(r.Name))
	assert.Equal(t, "jane@roe.dev", deref(r.Email))

	require.Len(t, r.Sections, 1)
	assert.Equal(t, types.SectionExperience, r.Sections[0].Type)
	assert.Equal(t, "Where I worked", deref(r.Sections[0].Title))
	companies := r.Sections[0].Content.(types.ExperienceList)
	require.Len(t, companies, 1)
	assert.Equal(t, "Initech LLC", companies[0].Company)
	assert.Equal(t, "Austin, TX", deref(companies[0].Location))
	assert.Equal(t, []string{"Shipped code"}, companies[0].Positions[0].Responsibilities)
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\n\t "} {
		r := Parse(in)
		assert.Nil(t, r.Name)
		assert.Nil(t, r.Location)
		assert.Nil(t, r.Phone)
		assert.Nil(t, r.Email)
		assert.Nil(t, r.LinkedIn)
		assert.NotNil(t, r.Sections)
		assert.Empty(t, r.Sections)

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":null,"location":null,"phone":null,"email":null,"linkedin":null,"sections":[]}`, string(data))
	}
}

func TestParseMessyResumeProperties(t *testing.T) {
	r := Parse(messyResume)

	assert.Equal(t, "John Q. Public", deref(r.Name))
	assert.Equal(t, "Austin, TX", deref(r.Location))
	assert.Equal(t, "john.public@mail.com", deref(r.Email))

	// 每种类型最多一个章节，Other 被过滤
	seen := map[types.SectionType]bool{}
	for _, s := range r.Sections {
		assert.False(t, seen[s.Type], "重复的章节类型 %s", s.Type)
		seen[s.Type] = true
		assert.True(t, s.Type.IsRecognized(), s.Type)
	}
	assert.Equal(t, []types.SectionType{
		types.SectionSummary,
		types.SectionExperience,
		types.SectionSkills,
		types.SectionEducation,
	}, sectionTypes(r))

	exp, _ := r.SectionByType(types.SectionExperience)
	companies := exp.Content.(types.ExperienceList)
	require.Len(t, companies, 1, "同一雇主和地点合并")
	assert.Equal(t, "2019 - 2021", deref(companies[0].Duration), "等长时保留先出现的时间段")
	assert.Len(t, companies[0].Positions, 2)

	skills, _ := r.SectionByType(types.SectionSkills)
	sm := skills.Content.(types.SkillMap)
	assert.Equal(t, []string{"Go", "Python"}, sm[types.SkillLanguages])
	assert.Equal(t, []string{"Docker", "Git", "Kubernetes"}, sm[types.SkillTools])
	assert.Equal(t, []string{"Leadership"}, sm[types.SkillSoft])

	edu, _ := r.SectionByType(types.SectionEducation)
	for _, e := range edu.Content.(types.EducationList) {
		assert.True(t, e.HasAnyData())
	}
}

func TestParseReparseSerializedContent(t *testing.T) {
	r := Parse(messyResume)
	for _, typ := range []types.SectionType{types.SectionExperience, types.SectionEducation} {
		s, ok := r.SectionByType(typ)
		require.True(t, ok, typ)

		data, err := json.Marshal(s.Content)
		require.NoError(t, err)
		lines := jsonStrings(t, data)

		assert.NotPanics(t, func() {
			switch typ {
			case types.SectionExperience:
				assert.LessOrEqual(t, len(ParseExperience(lines)), s.Content.Len())
			case types.SectionEducation:
				assert.LessOrEqual(t, len(ParseEducation(lines)), s.Content.Len())
			}
		})
	}
}

func TestParseJSONShape(t *testing.T) {
	data, err := json.Marshal(Parse(janeDoeResume))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://linkedin.com/in/janedoe", decoded["linkedin"])

	sections := decoded["sections"].([]any)
	require.Len(t, sections, 2)
	first := sections[0].(map[string]any)
	assert.Equal(t, "EDUCATION", first["title"])
	assert.Equal(t, "Education", first["type"])

	var back types.ParsedResume
	require.NoError(t, json.Unmarshal(data, &back))
	exp, ok := back.SectionByType(types.SectionExperience)
	require.True(t, ok)
	assert.IsType(t, types.ExperienceList{}, exp.Content)
}

func TestParseMaxInputBytes(t *testing.T) {
	p := NewResumeParser(WithMaxInputBytes(20))
	r := p.Parse("Jane Doe\njane@x.com\nEXPERIENCE\nAcme Corp 2020 - 2021\nEngineer")
	assert.Equal(t, "Jane Doe", deref(r.Name))
	assert.Equal(t, "jane@x.com", deref(r.Email))
	assert.Empty(t, r.Sections)
}

func TestParseConcurrent(t *testing.T) {
	want, err := json.Marshal(Parse(messyResume))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = json.Marshal(Parse(messyResume))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.JSONEq(t, string(want), string(got))
	}
}

func sectionTypes(r *types.ParsedResume) []types.SectionType {
	out := make([]types.SectionType, 0, len(r.Sections))
	for _, s := range r.Sections {
		out = append(out, s.Type)
	}
	return out
}

// jsonStrings 按字段顺序收集条目中的文本值，地点字段不参与
func jsonStrings(t *testing.T, data []byte) []string {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	var out []string
	var walk func(any)
	walk = func(x any) {
		switch val := x.(type) {
		case string:
			out = append(out, val)
		case []any:
			for _, e := range val {
				walk(e)
			}
		case map[string]any:
			for _, k := range []string{"school", "degree", "year", "grade", "company", "duration", "positions", "title", "responsibilities"} {
				if e, ok := val[k]; ok {
					walk(e)
				}
			}
		}
	}
	walk(v)
	return out
}
