package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clearcue-backend/internal/metrics"
	"clearcue-backend/internal/models"
	"clearcue-backend/pkg/logger"
)

type SessionService struct {
	stores Stores
	events EventPublisher
	now    func() time.Time
}

func NewSessionService(stores Stores, events EventPublisher) *SessionService {
	if events == nil {
		events = noopPublisher{}
	}
	return &SessionService{stores: stores, events: events, now: time.Now}
}

// Reconcile stores a finished analysis for owner and returns the owner's
// current session list. Sessions without a title are not stored. Storage
// failures are logged and never returned; the caller always gets a list,
// possibly empty.
func (s *SessionService) Reconcile(ctx context.Context, owner models.Owner, video models.VideoData, result *models.AnalysisResult) []*models.Session {
	store, backend, err := s.stores.sessionsFor(owner)
	if err != nil {
		logger.Log.Error("no session store for owner", zap.String("owner", owner.Key()), zap.Error(err))
		return []*models.Session{}
	}

	title := strings.TrimSpace(video.Title)
	if title == "" || result == nil {
		metrics.SessionSavesTotal.WithLabelValues(backend, metrics.OutcomeSkipped).Inc()
		return s.listQuietly(ctx, store, owner)
	}

	session := &models.Session{
		ID:               uuid.NewString(),
		UserID:           owner.UserID,
		CreatedAt:        s.now().UTC(),
		VideoTitle:       title,
		VideoData:        video,
		AnalysisResult:   *result,
		ThumbnailPreview: nil,
	}

	if err := store.Insert(ctx, owner, session); err != nil {
		metrics.SessionSavesTotal.WithLabelValues(backend, metrics.OutcomeError).Inc()
		logger.Log.Error("failed to save session",
			zap.String("owner", owner.Key()),
			zap.String("backend", backend),
			zap.String("video_title", title),
			zap.Error(err))
		return s.listQuietly(ctx, store, owner)
	}
	metrics.SessionSavesTotal.WithLabelValues(backend, metrics.OutcomeSuccess).Inc()

	sessions := s.listQuietly(ctx, store, owner)
	s.events.Publish(ctx, owner, models.WSMessage{
		Type:    models.EventSessionsUpdated,
		Payload: models.SessionsUpdated{Count: len(sessions), LatestID: session.ID},
	})
	return sessions
}

func (s *SessionService) listQuietly(ctx context.Context, store SessionStore, owner models.Owner) []*models.Session {
	sessions, err := store.List(ctx, owner)
	if err != nil {
		logger.Log.Error("failed to list sessions", zap.String("owner", owner.Key()), zap.Error(err))
		return []*models.Session{}
	}
	if sessions == nil {
		return []*models.Session{}
	}
	return sessions
}

// List returns the owner's sessions, newest first.
func (s *SessionService) List(ctx context.Context, owner models.Owner) ([]*models.Session, error) {
	store, _, err := s.stores.sessionsFor(owner)
	if err != nil {
		return nil, err
	}
	sessions, err := store.List(ctx, owner)
	if err != nil {
		return nil, &PersistenceError{Op: "load sessions", Err: err}
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	return sessions, nil
}

// Delete removes one of the owner's sessions. Ids belonging to someone else,
// or unknown ids, leave every store untouched.
func (s *SessionService) Delete(ctx context.Context, owner models.Owner, id string) ([]*models.Session, error) {
	store, _, err := s.stores.sessionsFor(owner)
	if err != nil {
		return nil, err
	}
	if err := store.Delete(ctx, owner, id); err != nil {
		return nil, &PersistenceError{Op: "delete session", Err: err}
	}
	sessions, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, owner, models.WSMessage{
		Type:    models.EventSessionsUpdated,
		Payload: models.SessionsUpdated{Count: len(sessions)},
	})
	return sessions, nil
}
