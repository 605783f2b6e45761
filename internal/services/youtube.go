package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"clearcue-backend/internal/models"
	"clearcue-backend/pkg/logger"
)

// MetadataSource returns title, description and tags for a video id.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, videoID, apiKey string) (*models.VideoMetadata, error)
}

// YouTubeService reads video metadata through the Data API when a key is
// available and through the public watch page otherwise. It also provides the
// keyless transcript path.
type YouTubeService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	// dataAPIEndpoint overrides the Data API base URL; empty means the default.
	dataAPIEndpoint string
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func NewYouTubeService(timeout time.Duration) *YouTubeService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &YouTubeService{
		httpClient:    httpClient,
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{HTTPClient: httpClient},
	}
}

// FetchMetadata looks up the video snippet. Tags are comma-joined.
func (s *YouTubeService) FetchMetadata(ctx context.Context, videoID, apiKey string) (*models.VideoMetadata, error) {
	if apiKey == "" {
		return s.fetchMetadataKeyless(ctx, videoID)
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if s.dataAPIEndpoint != "" {
		opts = append(opts, option.WithEndpoint(s.dataAPIEndpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, &TransportError{Service: "YouTube Data API", Err: err}
	}

	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, &NotFoundError{Message: "Video not found or access is restricted.", Err: err}
		}
		return nil, &TransportError{Service: "YouTube Data API", Err: err}
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, &NotFoundError{Message: "Video not found or access is restricted."}
	}

	snippet := resp.Items[0].Snippet
	return &models.VideoMetadata{
		VideoID:     videoID,
		Title:       snippet.Title,
		Description: snippet.Description,
		Tags:        strings.Join(snippet.Tags, ","),
	}, nil
}

func (s *YouTubeService) fetchMetadataKeyless(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		var playability yt.ErrPlayabiltyStatus
		if errors.Is(err, yt.ErrVideoPrivate) || errors.Is(err, yt.ErrLoginRequired) || errors.As(err, &playability) {
			return nil, &NotFoundError{Message: "Video not found or access is restricted.", Err: err}
		}
		return nil, &TransportError{Service: "YouTube", Err: err}
	}
	return &models.VideoMetadata{
		VideoID:     videoID,
		Title:       video.Title,
		Description: video.Description,
	}, nil
}

// FetchTranscriptKeyless pulls captions without any API key, trying the
// transcript API in English, then any language, then the timedtext track
// advertised on the watch page.
func (s *YouTubeService) FetchTranscriptKeyless(ctx context.Context, videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacy, legacyErr := s.getTranscriptViaTimedText(ctx, videoID)
			if legacyErr == nil {
				return legacy, nil
			}
			logger.Log.Debug("keyless transcript lookup failed",
				zap.String("video_id", videoID),
				zap.NamedError("transcript_api", err),
				zap.NamedError("timedtext", legacyErr))
			return "", &NotFoundError{Message: "No transcript is available for this video.", Err: ErrTranscriptUnavailable}
		}
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", &NotFoundError{Message: "The transcript for this video is empty.", Err: ErrTranscriptUnavailable}
	}
	return cleaned, nil
}

func (s *YouTubeService) getTranscriptViaTimedText(ctx context.Context, videoID string) (string, error) {
	pageURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}

	captionURL, err := extractCaptionURL(string(body))
	if err != nil {
		return "", err
	}

	captionReq, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", err
	}
	captionResp, err := s.httpClient.Do(captionReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	return parseCaptionsXML(captionBody)
}

var (
	captionTracksRe       = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionTracklistRe    = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionBaseURLPattern = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
)

func extractCaptionURL(pageHTML string) (string, error) {
	matches := captionTracksRe.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		matches = captionTracklistRe.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	urlMatches := captionBaseURLPattern.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := strings.ReplaceAll(urlMatches[1], `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	return u, nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}

	var parts []string
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("captions XML empty")
	}
	return strings.Join(parts, " "), nil
}
