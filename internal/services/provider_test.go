package services

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearcue-backend/internal/models"
)

func TestNewAnalysisProvider_Gemini(t *testing.T) {
	cfg := models.DefaultApiConfig()
	cfg.GeminiKey = "key"

	p, err := NewAnalysisProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGemini, p.Name())
	assert.Equal(t, "gemini-2.5-flash", p.Model())
}

func TestNewAnalysisProvider_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   models.ApiConfig
		field string
	}{
		{"empty gemini key", models.DefaultApiConfig(), "geminiKey"},
		{"openai unsupported", models.ApiConfig{Provider: models.ProviderOpenAI, Model: "gpt-4o", OpenAIKey: "sk"}, "provider"},
		{"unknown provider", models.ApiConfig{Provider: "claude", Model: "x", GeminiKey: "k"}, "provider"},
		{"missing model", models.ApiConfig{Provider: models.ProviderGemini, GeminiKey: "k"}, "model"},
		{"stale openai model", models.ApiConfig{Provider: models.ProviderGemini, Model: "gpt-4o", GeminiKey: "k"}, "model"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewAnalysisProvider(tc.cfg)
			assert.Nil(t, p)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.NotEmpty(t, cfgErr.Message)
		})
	}
}

func TestToGenaiParts(t *testing.T) {
	parts := toGenaiParts([]Part{
		{MIMEType: "image/jpeg", Data: []byte{1, 2}},
		{Text: "hello"},
	})

	require.Len(t, parts, 2)
	assert.Equal(t, genai.Blob{MIMEType: "image/jpeg", Data: []byte{1, 2}}, parts[0])
	assert.Equal(t, genai.Text("hello"), parts[1])
}
