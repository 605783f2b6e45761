package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"clearcue-backend/internal/models"
	"clearcue-backend/pkg/logger"
)

type GeminiProvider struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

// NewGeminiProvider binds a key and model. Extra client options are appended
// after the API key.
func NewGeminiProvider(apiKey, model string, opts ...option.ClientOption) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model, opts: opts}
}

func (p *GeminiProvider) Name() models.Provider { return models.ProviderGemini }

func (p *GeminiProvider) Model() string { return p.model }

// Analyze opens a client for the caller's key, sends the parts with the
// response schema attached and returns the trimmed text of the first candidate.
func (p *GeminiProvider) Analyze(ctx context.Context, parts []Part, schema *genai.Schema) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(p.apiKey)}, p.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", &TransportError{Service: "Gemini", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetCandidateCount(1)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, toGenaiParts(parts)...)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &InvalidResponseError{Message: "Gemini blocked the analysis response", Err: err}
		}
		return "", &TransportError{Service: "Gemini", Err: err}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			logger.Log.Warn("Gemini candidate did not finish normally",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
				zap.String("model", p.model))
		}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", &InvalidResponseError{Message: "Gemini returned an empty response"}
	}
	return text, nil
}

func toGenaiParts(parts []Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			out = append(out, genai.Blob{MIMEType: p.MIMEType, Data: p.Data})
			continue
		}
		out = append(out, genai.Text(p.Text))
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
		// Single candidate requested; ignore any extras.
		break
	}
	return text.String()
}
