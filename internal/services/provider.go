package services

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"clearcue-backend/internal/models"
)

// AnalysisProvider sends one schema-constrained request and returns the raw
// text payload. Implementations make exactly one external call per Analyze.
type AnalysisProvider interface {
	Name() models.Provider
	Model() string
	Analyze(ctx context.Context, parts []Part, schema *genai.Schema) (string, error)
}

// ProviderFactory builds the provider selected by cfg.
type ProviderFactory func(cfg models.ApiConfig) (AnalysisProvider, error)

// NewAnalysisProvider validates cfg and returns the matching provider. Unsupported
// providers and missing keys fail here, before any network activity.
func NewAnalysisProvider(cfg models.ApiConfig) (AnalysisProvider, error) {
	switch cfg.Provider {
	case models.ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, &ConfigurationError{
				Field:   "geminiKey",
				Message: "Gemini API key is not provided. Please add it in the API configuration.",
			}
		}
		if cfg.Model == "" {
			return nil, &ConfigurationError{Field: "model", Message: "No Gemini model selected."}
		}
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigurationError{
				Field:   "model",
				Message: fmt.Sprintf("Model %q is not available for Gemini. Please pick another model in the API configuration.", cfg.Model),
			}
		}
		return NewGeminiProvider(cfg.GeminiKey, cfg.Model), nil
	case models.ProviderOpenAI:
		return nil, &ConfigurationError{
			Field:   "provider",
			Message: "OpenAI provider is not yet supported. Please select Gemini in the API configuration.",
		}
	default:
		return nil, &ConfigurationError{
			Field:   "provider",
			Message: fmt.Sprintf("Unknown AI provider %q.", cfg.Provider),
		}
	}
}
