package models

import (
	"fmt"
	"slices"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// providerModels is the declared model list per provider. The first entry is the default.
var providerModels = map[Provider][]string{
	ProviderGemini: {"gemini-2.5-flash", "gemini-2.5-pro"},
	ProviderOpenAI: {"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
}

// Providers lists known providers in display order.
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI}
}

// ModelsFor returns a copy of the provider's declared models, or nil for an unknown provider.
func ModelsFor(p Provider) []string {
	return slices.Clone(providerModels[p])
}

// DefaultModel returns the first declared model of p.
func DefaultModel(p Provider) string {
	list := providerModels[p]
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func (p Provider) Known() bool {
	_, ok := providerModels[p]
	return ok
}

// DefaultTranscriptKey is the shared youtube-transcript.io key pre-filled for new configs.
var DefaultTranscriptKey = "6918b060522a1fa0d931dad6"

type ApiConfig struct {
	Provider             Provider `json:"provider"`
	Model                string   `json:"model"`
	GeminiKey            string   `json:"geminiKey"`
	OpenAIKey            string   `json:"openAIKey"`
	YoutubeKey           string   `json:"youtubeKey"`
	YoutubeTranscriptKey string   `json:"youtubeTranscriptKey"`
}

func DefaultApiConfig() ApiConfig {
	return ApiConfig{
		Provider:             ProviderGemini,
		Model:                DefaultModel(ProviderGemini),
		YoutubeTranscriptKey: DefaultTranscriptKey,
	}
}

// WithProvider switches provider and resets the model to that provider's default.
func (c ApiConfig) WithProvider(p Provider) ApiConfig {
	c.Provider = p
	c.Model = DefaultModel(p)
	return c
}

// KeyFor returns the credential used by the given provider.
func (c ApiConfig) KeyFor(p Provider) string {
	switch p {
	case ProviderGemini:
		return c.GeminiKey
	case ProviderOpenAI:
		return c.OpenAIKey
	}
	return ""
}

// Validate checks that the provider is known and the model belongs to it.
func (c ApiConfig) Validate() error {
	if !c.Provider.Known() {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if !slices.Contains(providerModels[c.Provider], c.Model) {
		return fmt.Errorf("model %q is not available for provider %s", c.Model, c.Provider)
	}
	return nil
}

type ProviderInfo struct {
	Provider Provider `json:"provider"`
	Models   []string `json:"models"`
}
