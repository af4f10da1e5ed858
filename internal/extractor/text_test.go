package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExtractor(t *testing.T) {
	e := NewTextExtractor()
	doc, err := e.Extract(context.Background(), []byte("\xEF\xBB\xBFJane Doe\nSKILLS\n"), MIMETXT)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS\n", doc.Text)
	assert.Equal(t, FormatTXT, doc.Format)
	assert.Equal(t, "text", doc.Engine)

	_, err = e.Extract(context.Background(), []byte("Jane \xff\xfe"), MIMETXT)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestCleanText(t *testing.T) {
	testCases := map[string]struct{ in, want string }{
		"换行统一":   {"a\r\nb\rc\fd", "a\nb\nc\nd"},
		"连字拆开":   {"\ufb01rst of\ufb02ow", "first offlow"},
		"全角转半角":  {"ＡＢＣ１２３", "ABC123"},
		"控制字符":   {"a\x00b\x07c\tz", "abc\tz"},
		"软连字符":   {"co\u00adoperate", "cooperate"},
		"首尾空行":   {"\n\n  Jane\n\n", "Jane"},
		"保留内部空行": {"a\n\nb", "a\n\nb"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.in))
		})
	}
}
