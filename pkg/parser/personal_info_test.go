package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPersonalInfo(t *testing.T) {
	t.Run("竖线分隔的联系方式", func(t *testing.T) {
		info := ExtractPersonalInfo([]string{
			"Jane Doe",
			"San Francisco, CA | (415) 555-0100 | jane@x.com | linkedin.com/in/janedoe",
		})
		require.NotNil(t, info.Name)
		assert.Equal(t, "Jane Doe", *info.Name)
		require.NotNil(t, info.Location)
		assert.Equal(t, "San Francisco, CA", *info.Location)
		require.NotNil(t, info.Email)
		assert.Equal(t, "jane@x.com", *info.Email)
		// 连字符和斜杠被当成分隔符，电话和 LinkedIn 留给全文兜底
		assert.Nil(t, info.Phone)
		assert.Nil(t, info.LinkedIn)
	})

	t.Run("电话前缀与多行联系方式", func(t *testing.T) {
		info := ExtractPersonalInfo([]string{
			"John Smith",
			"Phone: +1 415 555 0100",
			"john@smith.io • other@smith.io",
		})
		require.NotNil(t, info.Phone)
		assert.Equal(t, "+1 415 555 0100", *info.Phone)
		require.NotNil(t, info.Email)
		assert.Equal(t, "john@smith.io", *info.Email, "已填充的字段不会被覆盖")
	})

	t.Run("只参考姓名之后的四行", func(t *testing.T) {
		info := ExtractPersonalInfo([]string{"A B", "x", "y", "z", "w", "late@mail.com"})
		assert.Nil(t, info.Email)
	})

	t.Run("空输入", func(t *testing.T) {
		info := ExtractPersonalInfo(nil)
		assert.Nil(t, info.Name)
		assert.Nil(t, info.Email)
	})
}

func TestExtractPhone(t *testing.T) {
	testCases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(415) 555-0100", "(415) 555-0100", true},
		{"+44 20 7946 0958", "+44 20 7946 0958", true},
		{"call 555-0100", "", false},
		{"2016 - 2020", "", false},
		{"no digits here", "", false},
	}
	for _, tc := range testCases {
		got, ok := ExtractPhone(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestExtractEmail(t *testing.T) {
	got, ok := ExtractEmail("Contact: john.smith@example.com, thanks")
	require.True(t, ok)
	assert.Equal(t, "john.smith@example.com", got)

	got, ok = ExtractEmail("<jane@doe.org>")
	require.True(t, ok)
	assert.Equal(t, "jane@doe.org", got)

	_, ok = ExtractEmail("jane at doe dot org")
	assert.False(t, ok)
}

func TestExtractLinkedIn(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"linkedin.com/in/janedoe", "https://linkedin.com/in/janedoe"},
		{"see www.linkedin.com/in/jane_doe/.", "https://www.linkedin.com/in/jane_doe/"},
		{"(linkedin.com/in/jane-doe)", "https://linkedin.com/in/jane-doe"},
		{"HTTP://LinkedIn.com/pub/x", "HTTP://LinkedIn.com/pub/x"},
		{"https://linkedin.com/company/acme;", "https://linkedin.com/company/acme"},
	}
	for _, tc := range testCases {
		got, ok := ExtractLinkedIn(tc.in)
		assert.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, ok := ExtractLinkedIn("linkedin.com/feed")
	assert.False(t, ok)
}

func TestIsLocation(t *testing.T) {
	assert.True(t, IsLocation("San Francisco, CA"))
	assert.True(t, IsLocation("Austin,TX"))
	assert.False(t, IsLocation("Suite 100, Austin"))
	assert.False(t, IsLocation("NYC"))
}
