package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrTranscriptUnavailable = errors.New("transcript not available")
	ErrMalformedTranscript   = errors.New("malformed transcript response")
)

// TranscriptSource returns the plain-text transcript of a video.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, videoID, apiKey string) (string, error)
}

const DefaultTranscriptAPIURL = "https://www.youtube-transcript.io/api/transcripts"

// TranscriptService calls youtube-transcript.io when a key is given and falls
// back to the keyless YouTube path otherwise.
type TranscriptService struct {
	httpClient *http.Client
	apiURL     string
	keyless    *YouTubeService
}

func NewTranscriptService(apiURL string, timeout time.Duration, keyless *YouTubeService) *TranscriptService {
	if apiURL == "" {
		apiURL = DefaultTranscriptAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TranscriptService{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		keyless:    keyless,
	}
}

func (s *TranscriptService) FetchTranscript(ctx context.Context, videoID, apiKey string) (string, error) {
	if apiKey == "" {
		if s.keyless == nil {
			return "", &ConfigurationError{Field: "youtubeTranscriptKey", Message: "YouTube Transcript API key is not provided."}
		}
		return s.keyless.FetchTranscriptKeyless(ctx, videoID)
	}

	body, _ := json.Marshal(map[string][]string{"ids": {videoID}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Service: "Transcript API", Err: err}
	}
	req.Header.Set("Authorization", "Basic "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Service: "Transcript API", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Service: "Transcript API", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		msg := fmt.Sprintf("API request failed with status %d", resp.StatusCode)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return "", &TransportError{Service: "Transcript API", Err: errors.New(msg)}
	}

	return parseTranscriptResponse(data)
}

type transcriptSegment struct {
	Text string `json:"text"`
}

// parseTranscriptResponse accepts either an array of per-id results or a single
// object. The transcript field is either a string or a list of segments.
func parseTranscriptResponse(data []byte) (string, error) {
	var envelope json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", malformedTranscript(data, err)
	}

	var item struct {
		Transcript json.RawMessage `json:"transcript"`
	}
	trimmed := bytes.TrimSpace(envelope)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []struct {
			Transcript json.RawMessage `json:"transcript"`
		}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", malformedTranscript(data, err)
		}
		if len(items) > 0 {
			item.Transcript = items[0].Transcript
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return "", malformedTranscript(data, err)
		}
	default:
		return "", malformedTranscript(data, errors.New("unexpected top-level value"))
	}

	raw := bytes.TrimSpace(item.Transcript)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", &NotFoundError{Message: "Transcript not found in API response or video has no transcript.", Err: ErrTranscriptUnavailable}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", &NotFoundError{Message: "Transcript not found in API response or video has no transcript.", Err: ErrTranscriptUnavailable}
		}
		return text, nil
	}

	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err != nil {
		return "", malformedTranscript(data, err)
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", &NotFoundError{Message: "Transcript not found in API response or video has no transcript.", Err: ErrTranscriptUnavailable}
	}
	return strings.Join(parts, " "), nil
}

func malformedTranscript(data []byte, err error) error {
	return &InvalidResponseError{
		Message: "Transcript API returned an unexpected response",
		Raw:     string(data),
		Err:     fmt.Errorf("%w: %v", ErrMalformedTranscript, err),
	}
}
