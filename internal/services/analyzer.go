package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"clearcue-backend/internal/metrics"
	"clearcue-backend/internal/models"
	"clearcue-backend/pkg/logger"
)

type AnalyzerService struct {
	configs     *ConfigService
	sessions    *SessionService
	newProvider ProviderFactory
	events      EventPublisher
	language    string
}

func NewAnalyzerService(configs *ConfigService, sessions *SessionService, newProvider ProviderFactory, events EventPublisher, language string) *AnalyzerService {
	if newProvider == nil {
		newProvider = NewAnalysisProvider
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &AnalyzerService{
		configs:     configs,
		sessions:    sessions,
		newProvider: newProvider,
		events:      events,
		language:    language,
	}
}

// Analyze runs one analysis for owner: resolve config, build the request, call
// the provider once, validate the payload and store the session. Configuration
// problems fail before any network call. A storage failure after a successful
// analysis does not fail the call.
func (s *AnalyzerService) Analyze(ctx context.Context, owner models.Owner, video models.VideoData, image *models.ImagePayload) (*models.AnalyzeResponse, error) {
	cfg, err := s.configs.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	provider, err := s.newProvider(cfg)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(string(cfg.Provider), outcomeLabel(err)).Inc()
		return nil, err
	}

	s.events.Publish(ctx, owner, models.WSMessage{
		Type: models.EventAnalysisStarted,
		Payload: models.AnalysisStatus{
			VideoTitle: video.Title,
			Provider:   provider.Name(),
			Model:      provider.Model(),
			At:         time.Now().UTC(),
		},
	})

	parts := BuildAnalysisParts(video, image, s.language)

	start := time.Now()
	raw, err := provider.Analyze(ctx, parts, AnalysisSchema)
	metrics.AnalysisDuration.WithLabelValues(string(provider.Name())).Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail(ctx, owner, provider, video, err)
		return nil, err
	}

	result, err := ParseAnalysisResult(raw)
	if err != nil {
		s.fail(ctx, owner, provider, video, err)
		return nil, err
	}
	metrics.AnalysesTotal.WithLabelValues(string(provider.Name()), metrics.OutcomeSuccess).Inc()

	overall := result.OverallScore()
	logger.Log.Info("analysis completed",
		zap.String("owner", owner.Key()),
		zap.String("provider", string(provider.Name())),
		zap.String("model", provider.Model()),
		zap.Int("overall_score", overall),
		zap.Duration("elapsed", time.Since(start)))

	s.events.Publish(ctx, owner, models.WSMessage{
		Type: models.EventAnalysisCompleted,
		Payload: models.AnalysisStatus{
			VideoTitle:   video.Title,
			Provider:     provider.Name(),
			Model:        provider.Model(),
			OverallScore: overall,
			At:           time.Now().UTC(),
		},
	})

	sessions := s.sessions.Reconcile(ctx, owner, video, result)

	return &models.AnalyzeResponse{
		Result:       result,
		OverallScore: overall,
		Verdict:      result.Verdict(),
		Sessions:     sessions,
	}, nil
}

func (s *AnalyzerService) fail(ctx context.Context, owner models.Owner, provider AnalysisProvider, video models.VideoData, err error) {
	metrics.AnalysesTotal.WithLabelValues(string(provider.Name()), outcomeLabel(err)).Inc()

	fields := []zap.Field{
		zap.String("owner", owner.Key()),
		zap.String("provider", string(provider.Name())),
		zap.String("model", provider.Model()),
		zap.Error(err),
	}
	var invalid *InvalidResponseError
	if errors.As(err, &invalid) && invalid.Raw != "" {
		fields = append(fields, zap.Int("raw_length", len(invalid.Raw)))
	}
	logger.Log.Error("analysis failed", fields...)

	s.events.Publish(ctx, owner, models.WSMessage{
		Type: models.EventAnalysisFailed,
		Payload: models.AnalysisStatus{
			VideoTitle:   video.Title,
			Provider:     provider.Name(),
			Model:        provider.Model(),
			ErrorCode:    ErrorCode(err),
			ErrorMessage: err.Error(),
			At:           time.Now().UTC(),
		},
	})
}

func outcomeLabel(err error) string {
	switch ErrorCode(err) {
	case CodeConfiguration:
		return "configuration_error"
	case CodeTransport:
		return "transport_error"
	case CodeInvalidResponse:
		return "invalid_response"
	}
	return metrics.OutcomeError
}
