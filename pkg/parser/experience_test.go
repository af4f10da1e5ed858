package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/pkg/types"
)

func TestParseExperience(t *testing.T) {
	t.Run("公司与日期同行且下一行是职位", func(t *testing.T) {
		list := ParseExperience([]string{
			"Acme Corp, San Francisco, CA 2020 - Present",
			"Software Engineer",
			"- Built things",
		})
		require.Len(t, list, 1)
		c := list[0]
		assert.Equal(t, "Acme Corp", c.Company)
		assert.Equal(t, "2020 - Present", deref(c.Duration))
		assert.Equal(t, "San Francisco, CA", deref(c.Location))
		require.Len(t, c.Positions, 1)
		assert.Equal(t, "Software Engineer", c.Positions[0].Title)
		assert.Equal(t, []string{"Built things"}, c.Positions[0].Responsibilities)
	})

	t.Run("公司行后跟职位行，日期单独一行", func(t *testing.T) {
		list := ParseExperience([]string{
			"Globex Corporation, Austin, TX",
			"Senior Software Engineer",
			"Jan 2019 - Dec 2021",
			"• Designed billing pipelines",
			"• Reduced latency by 40%",
			"Data Analyst",
			"2017 - 2019",
			"Cleaned datasets",
		})
		require.Len(t, list, 1)
		c := list[0]
		assert.Equal(t, "Globex Corporation", c.Company)
		assert.Equal(t, "Austin, TX", deref(c.Location))
		// 日期行覆盖公司的时间段
		assert.Equal(t, "2017 - 2019", deref(c.Duration))
		require.Len(t, c.Positions, 2)
		assert.Equal(t, "Senior Software Engineer", c.Positions[0].Title)
		assert.Equal(t, []string{"Designed billing pipelines", "Reduced latency by 40%"}, c.Positions[0].Responsibilities)
		assert.Equal(t, "Data Analyst", c.Positions[1].Title)
		assert.Equal(t, []string{"Cleaned datasets"}, c.Positions[1].Responsibilities)
	})

	t.Run("相同公司和地点合并", func(t *testing.T) {
		list := ParseExperience([]string{
			"Acme Corp, Denver, CO 2018 - 2019",
			"Intern",
			"Wrote tests",
			"ACME CORP, Denver, CO 2020 - Present",
			"Software Engineer",
			"Shipped features",
		})
		require.Len(t, list, 1)
		c := list[0]
		assert.Equal(t, "Acme Corp", c.Company, "保留首次出现的写法")
		assert.Equal(t, "2020 - Present", deref(c.Duration), "保留更长的时间段")
		require.Len(t, c.Positions, 2)
		assert.Equal(t, "Intern", c.Positions[0].Title)
		assert.Equal(t, "Software Engineer", c.Positions[1].Title)
	})

	t.Run("没有职位时创建默认职位", func(t *testing.T) {
		list := ParseExperience([]string{"Initech LLC", "2015 - 2016", "Fixed printers"})
		require.Len(t, list, 1)
		c := list[0]
		assert.Equal(t, "Initech LLC", c.Company)
		assert.Equal(t, "2015 - 2016", deref(c.Duration))
		assert.Nil(t, c.Location)
		require.Len(t, c.Positions, 1)
		assert.Equal(t, "Position", c.Positions[0].Title)
		assert.Equal(t, []string{"Fixed printers"}, c.Positions[0].Responsibilities)
	})

	t.Run("无归属的行被丢弃", func(t *testing.T) {
		list := ParseExperience([]string{"Worked on various things", "Initech LLC", "Fixed printers"})
		require.Len(t, list, 1)
		assert.Equal(t, []string{"Fixed printers"}, list[0].Positions[0].Responsibilities)
	})

	t.Run("已有公司时单独的公司行被跳过", func(t *testing.T) {
		list := ParseExperience([]string{"Initech LLC", "Fixed printers", "Globex Inc", "Sold widgets"})
		require.Len(t, list, 1)
		assert.Equal(t, "Initech LLC", list[0].Company)
		require.Len(t, list[0].Positions, 1)
		assert.Equal(t, []string{"Fixed printers", "Sold widgets"}, list[0].Positions[0].Responsibilities)
	})

	t.Run("职责中的机构名不拆分雇主", func(t *testing.T) {
		list := ParseExperience([]string{
			"Acme Corp, San Francisco, CA 2020 - Present",
			"Software Engineer",
			"- Built things",
			"Partnered with Stanford University",
			"- Shipped stuff",
		})
		require.Len(t, list, 1)
		c := list[0]
		assert.Equal(t, "Acme Corp", c.Company)
		require.Len(t, c.Positions, 1)
		assert.Equal(t, "Software Engineer", c.Positions[0].Title)
		assert.Equal(t, []string{"Built things", "Shipped stuff"}, c.Positions[0].Responsibilities)
	})

	t.Run("跳过经历子标题", func(t *testing.T) {
		list := ParseExperience([]string{"WORK EXPERIENCE", "Initech LLC", "Fixed printers"})
		require.Len(t, list, 1)
		assert.Equal(t, "Initech LLC", list[0].Company)
	})

	t.Run("空输入", func(t *testing.T) {
		list := ParseExperience(nil)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestIsCompanyLine(t *testing.T) {
	testCases := []struct {
		line string
		want bool
	}{
		{"Acme Corp", true},
		{"Foo Bar, Lansing, MI", true},
		{"Nguyen Trading, Ho Chi Minh City", true},
		{"Built the Acme Corp billing system", false},
		{"• Acme Corp", false},
		{"Worked in sales, marketing and support", false},
		{"Collaboration tools", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsCompanyLine(tc.line), tc.line)
	}
}

func TestIsDateLine(t *testing.T) {
	testCases := []struct {
		line string
		want bool
	}{
		{"Jan 2020 - Present", true},
		{"September 2018", true},
		{"2019 – 2021", true},
		{"05/2021", true},
		{"Since 2015", true},
		{"Handled 3000 tickets a week", false},
		{"Marketing campaigns", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsDateLine(tc.line), tc.line)
	}
}

func TestLooksLikeTitleLine(t *testing.T) {
	assert.True(t, LooksLikeTitleLine("Software Engineer"))
	assert.True(t, LooksLikeTitleLine("Senior Data Analyst"))
	assert.False(t, LooksLikeTitleLine("Developed data pipelines"))
	assert.False(t, LooksLikeTitleLine("Acme Corp Software Engineer"))
	assert.False(t, LooksLikeTitleLine("Software Engineer 2020"))
	assert.False(t, LooksLikeTitleLine("- Software Engineer"))
	assert.False(t, LooksLikeTitleLine("Gardening"))
}

func TestExtractCompanyName(t *testing.T) {
	assert.Equal(t, "Google", ExtractCompanyName("at Google, Mountain View, CA 2019 - 2021"))
	assert.Equal(t, "Stripe", ExtractCompanyName("@ Stripe —"))
	assert.Equal(t, "Initech LLC", ExtractCompanyName("Initech LLC 2015-2016"))
	assert.Equal(t, "Initech LLC", ExtractCompanyName("Initech LLC - 2015"))
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, "2020 - Present", ExtractDuration("Jan 2020 - Present"))
	assert.Equal(t, "March 2018 – June 2020", ExtractDuration("March 2018 – June 2020"))
	assert.Equal(t, "2019", ExtractDuration("Summer 2019"))
	assert.Equal(t, "Ongoing", ExtractDuration("  Ongoing "))
}

func TestExtractLocation(t *testing.T) {
	assert.Equal(t, "Cambridge, MA", deref(ExtractLocation("MIT, Cambridge, MA")))
	assert.Equal(t, "Austin", deref(ExtractLocation("Acme, Austin")))
	assert.Equal(t, "TX", deref(ExtractLocation("Acme, TX, 2020")))
	assert.Nil(t, ExtractLocation("Acme"))
	assert.Nil(t, ExtractLocation("Globex Inc"), "第一个逗号片段是名称，不当作地点")
}

func TestConsolidateCompaniesUniqueKeys(t *testing.T) {
	d1, d2 := "2019", "2019 - 2020"
	loc := "Austin, TX"
	list := consolidateCompanies([]types.ExperienceCompany{
		{Company: "Acme", Duration: &d1, Location: &loc, Positions: []types.Position{{Title: "A"}}},
		{Company: "  "},
		{Company: "acme ", Duration: &d2, Location: &loc, Positions: []types.Position{{Title: "B"}}},
		{Company: "Acme", Positions: []types.Position{{Title: "C"}}},
	})
	require.Len(t, list, 2)
	assert.Equal(t, "2019 - 2020", deref(list[0].Duration))
	assert.Len(t, list[0].Positions, 2)
	assert.Nil(t, list[1].Location)

	seen := map[string]bool{}
	for _, c := range list {
		key := companyKey(c)
		assert.False(t, seen[key], key)
		seen[key] = true
	}
}
