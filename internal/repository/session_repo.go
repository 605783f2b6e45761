package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"clearcue-backend/internal/models"
)

var errNoUser = errors.New("owner has no authenticated user")

// SessionRepo stores sessions of authenticated users in Postgres.
type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Insert(ctx context.Context, owner models.Owner, s *models.Session) error {
	if owner.UserID == nil {
		return errNoUser
	}

	id, err := uuid.Parse(s.ID)
	if err != nil {
		id = uuid.New()
	}
	videoBytes, err := json.Marshal(s.VideoData)
	if err != nil {
		return fmt.Errorf("encode video data: %w", err)
	}
	resultBytes, err := json.Marshal(s.AnalysisResult)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}

	// thumbnail_preview is never written for remote sessions.
	query := `INSERT INTO sessions (id, user_id, video_title, video_data, analysis_result, thumbnail_preview)
		VALUES ($1, $2, $3, $4, $5, NULL) RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query,
		id, *owner.UserID, s.VideoTitle, videoBytes, resultBytes,
	).Scan(&s.CreatedAt); err != nil {
		return err
	}
	s.ID = id.String()
	s.UserID = owner.UserID
	s.ThumbnailPreview = nil
	return nil
}

// List returns every session of the user, newest first.
func (r *SessionRepo) List(ctx context.Context, owner models.Owner) ([]*models.Session, error) {
	if owner.UserID == nil {
		return nil, errNoUser
	}

	query := `SELECT id, user_id, video_title, video_data, analysis_result, thumbnail_preview, created_at
		FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, *owner.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		var (
			id, userID              uuid.UUID
			videoBytes, resultBytes []byte
			s                       models.Session
		)
		if err := rows.Scan(&id, &userID, &s.VideoTitle, &videoBytes, &resultBytes, &s.ThumbnailPreview, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(videoBytes, &s.VideoData); err != nil {
			return nil, fmt.Errorf("decode session %s video data: %w", id, err)
		}
		if err := json.Unmarshal(resultBytes, &s.AnalysisResult); err != nil {
			return nil, fmt.Errorf("decode session %s result: %w", id, err)
		}
		s.AnalysisResult.Normalize()
		s.ID = id.String()
		s.UserID = &userID
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// Delete removes the session only when it belongs to the owner.
func (r *SessionRepo) Delete(ctx context.Context, owner models.Owner, id string) error {
	if owner.UserID == nil {
		return errNoUser
	}
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1 AND user_id = $2", sessionID, *owner.UserID)
	return err
}
