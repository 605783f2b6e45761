package services

import (
	"encoding/json"
	"strings"

	"clearcue-backend/internal/models"
)

// ParseAnalysisResult checks raw against AnalysisSchema and decodes it. Any
// syntax or shape error yields an InvalidResponseError carrying the raw text;
// a partial result is never returned.
func ParseAnalysisResult(raw string) (*models.AnalysisResult, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, &InvalidResponseError{Message: "AI response was empty", Raw: raw}
	}

	var instance any
	if err := json.Unmarshal([]byte(payload), &instance); err != nil {
		return nil, &InvalidResponseError{Message: "AI response is not valid JSON", Raw: raw, Err: err}
	}
	if err := resolvedAnalysisSchema.Validate(instance); err != nil {
		return nil, &InvalidResponseError{Message: "AI response does not match the analysis schema", Raw: raw, Err: err}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, &InvalidResponseError{Message: "AI response could not be decoded", Raw: raw, Err: err}
	}
	result.Normalize()
	return &result, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line.
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
