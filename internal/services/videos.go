package services

import (
	"context"

	"clearcue-backend/internal/models"
)

// VideoService fetches metadata and transcripts with the owner's configured keys.
type VideoService struct {
	configs     *ConfigService
	metadata    MetadataSource
	transcripts TranscriptSource
}

func NewVideoService(configs *ConfigService, metadata MetadataSource, transcripts TranscriptSource) *VideoService {
	return &VideoService{configs: configs, metadata: metadata, transcripts: transcripts}
}

func (s *VideoService) Metadata(ctx context.Context, owner models.Owner, videoID string) (*models.VideoMetadata, error) {
	id, err := ExtractVideoID(videoID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.metadata.FetchMetadata(ctx, id, cfg.YoutubeKey)
}

func (s *VideoService) Transcript(ctx context.Context, owner models.Owner, videoID string) (string, error) {
	id, err := ExtractVideoID(videoID)
	if err != nil {
		return "", err
	}
	cfg, err := s.configs.Resolve(ctx, owner)
	if err != nil {
		return "", err
	}
	return s.transcripts.FetchTranscript(ctx, id, cfg.YoutubeTranscriptKey)
}

// Resolve parses a YouTube URL and prefills VideoData from its metadata and,
// when one is available, its transcript. A missing transcript is not an error.
func (s *VideoService) Resolve(ctx context.Context, owner models.Owner, rawURL string) (*models.VideoData, *models.VideoMetadata, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, nil, err
	}
	meta, err := s.Metadata(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}

	video := &models.VideoData{
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        meta.Tags,
		YoutubeLink: "https://www.youtube.com/watch?v=" + id,
	}
	if transcript, err := s.Transcript(ctx, owner, id); err == nil {
		video.Transcript = transcript
	}
	return video, meta, nil
}
