package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisResult_Valid(t *testing.T) {
	result, err := ParseAnalysisResult(validPayload)
	require.NoError(t, err)

	assert.Equal(t, 95, result.Scores.Compliance.Score)
	assert.Equal(t, "Competitive keywords.", result.Scores.SEOOpportunity.Explanation)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "ads-sensitive-language", result.Issues[0].RuleID)
	assert.Equal(t, []string{"A", "B", "C"}, result.Recommendations.Titles)
	require.Len(t, result.Recommendations.Keywords, 1)
	assert.Equal(t, "medium", result.Recommendations.Keywords[0].Difficulty)
	require.Len(t, result.Recommendations.ThumbnailVariants, 2)
	assert.Equal(t, 82, result.OverallScore())
}

func TestParseAnalysisResult_CodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validPayload + "\n```",
		"```\n" + validPayload + "\n```",
		"  \n" + validPayload + "\n\n",
	} {
		result, err := ParseAnalysisResult(raw)
		require.NoError(t, err)
		assert.Equal(t, 82, result.OverallScore())
	}
}

func TestParseAnalysisResult_EmptyArraysStayArrays(t *testing.T) {
	raw := strings.Replace(validPayload, `"issues": [
    {"ruleId": "ads-sensitive-language", "severity": "low", "evidence": "damn", "fix": "darn"}
  ]`, `"issues": []`, 1)

	result, err := ParseAnalysisResult(raw)
	require.NoError(t, err)
	assert.NotNil(t, result.Issues)
	assert.Empty(t, result.Issues)
}

func TestParseAnalysisResult_RoundsAndClampsScores(t *testing.T) {
	raw := strings.Replace(validPayload, `"score": 95`, `"score": 120.4`, 1)
	raw = strings.Replace(raw, `"score": 78`, `"score": 77.5`, 1)
	raw = strings.Replace(raw, `"score": 84`, `"score": -3`, 1)

	result, err := ParseAnalysisResult(raw)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Scores.Compliance.Score)
	assert.Equal(t, 78, result.Scores.Thumbnail.Score)
	assert.Equal(t, 0, result.Scores.Title.Score)
}

func TestParseAnalysisResult_HugeScoreClampsHigh(t *testing.T) {
	raw := validPayload
	for _, score := range []string{`"score": 78`, `"score": 84`, `"score": 81`, `"score": 73`} {
		raw = strings.Replace(raw, score, `"score": 100`, 1)
	}
	raw = strings.Replace(raw, `"score": 95`, `"score": 1e300`, 1)

	result, err := ParseAnalysisResult(raw)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Scores.Compliance.Score)
	assert.Equal(t, 100, result.OverallScore())
	assert.Equal(t, "safe", result.Verdict())
}

func TestParseAnalysisResult_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "Sorry, I cannot help with that."},
		{"truncated", validPayload[:len(validPayload)/2]},
		{"array", `[1,2,3]`},
		{"missing scores", `{"issues": [], "recommendations": {"titles": [], "description": "", "hashtags": [], "keywords": [], "thumbnailVariants": []}}`},
		{"missing dimension", strings.Replace(validPayload, `"seoOpportunity": {"score": 73, "explanation": "Competitive keywords."}`, `"other": {"score": 73, "explanation": "x"}`, 1)},
		{"score as string", strings.Replace(validPayload, `"score": 95`, `"score": "high"`, 1)},
		{"issue missing fix", strings.Replace(validPayload, `, "fix": "darn"`, ``, 1)},
		{"titles not array", strings.Replace(validPayload, `"titles": ["A", "B", "C"]`, `"titles": "A"`, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAnalysisResult(tc.raw)
			require.Error(t, err)
			assert.Nil(t, result)

			var invalid *InvalidResponseError
			require.True(t, errors.As(err, &invalid), "expected InvalidResponseError, got %T", err)
			assert.Equal(t, tc.raw, invalid.Raw)
			assert.Equal(t, CodeInvalidResponse, ErrorCode(err))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
