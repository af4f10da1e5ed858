package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeSubmissionJSONFields(t *testing.T) {
	var s ResumeSubmission
	require.NoError(t, s.SetSectionTypes([]string{"Experience", "Skills"}))
	assert.JSONEq(t, `["Experience","Skills"]`, string(s.SectionTypes))
	assert.Equal(t, []string{"Experience", "Skills"}, s.GetSectionTypes())

	require.NoError(t, s.SetSectionTypes(nil))
	assert.Equal(t, "[]", string(s.SectionTypes))

	require.NoError(t, s.SetExtractorMeta(nil))
	assert.Equal(t, "{}", string(s.ExtractorMeta))

	require.NoError(t, s.SetExtractorMeta(map[string]any{"pages": 2}))
	assert.JSONEq(t, `{"pages":2}`, string(s.ExtractorMeta))

	assert.Error(t, s.SetExtractorMeta(map[string]any{"bad": math.Inf(1)}))
	assert.Equal(t, "resume_submissions", ResumeSubmission{}.TableName())
}
