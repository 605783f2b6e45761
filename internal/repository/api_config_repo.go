package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clearcue-backend/internal/models"
)

// ApiConfigRepo stores one configuration row per authenticated user. Keys are
// sealed with KeyCipher.
type ApiConfigRepo struct {
	pool   *pgxpool.Pool
	cipher *KeyCipher
}

func NewApiConfigRepo(pool *pgxpool.Pool, cipher *KeyCipher) *ApiConfigRepo {
	return &ApiConfigRepo{pool: pool, cipher: cipher}
}

// Load returns nil, nil when the user has no row.
func (r *ApiConfigRepo) Load(ctx context.Context, owner models.Owner) (*models.ApiConfig, error) {
	if owner.UserID == nil {
		return nil, errNoUser
	}

	var (
		provider, model                  string
		geminiEnc, openaiEnc             string
		youtubeEnc, youtubeTranscriptEnc string
	)
	query := `SELECT provider, model, gemini_key_enc, openai_key_enc, youtube_key_enc, youtube_transcript_key_enc
		FROM user_api_configs WHERE user_id = $1`
	err := r.pool.QueryRow(ctx, query, *owner.UserID).Scan(
		&provider, &model, &geminiEnc, &openaiEnc, &youtubeEnc, &youtubeTranscriptEnc,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &models.ApiConfig{Provider: models.Provider(provider), Model: model}
	for _, f := range []struct {
		sealed string
		dst    *string
	}{
		{geminiEnc, &cfg.GeminiKey},
		{openaiEnc, &cfg.OpenAIKey},
		{youtubeEnc, &cfg.YoutubeKey},
		{youtubeTranscriptEnc, &cfg.YoutubeTranscriptKey},
	} {
		plain, err := r.cipher.Open(f.sealed)
		if err != nil {
			return nil, err
		}
		*f.dst = plain
	}
	return cfg, nil
}

// Save upserts every column in one statement.
func (r *ApiConfigRepo) Save(ctx context.Context, owner models.Owner, cfg models.ApiConfig) error {
	if owner.UserID == nil {
		return errNoUser
	}

	sealed := make([]string, 0, 4)
	for _, plain := range []string{cfg.GeminiKey, cfg.OpenAIKey, cfg.YoutubeKey, cfg.YoutubeTranscriptKey} {
		s, err := r.cipher.Seal(plain)
		if err != nil {
			return err
		}
		sealed = append(sealed, s)
	}

	query := `INSERT INTO user_api_configs
			(user_id, provider, model, gemini_key_enc, openai_key_enc, youtube_key_enc, youtube_transcript_key_enc, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			model = EXCLUDED.model,
			gemini_key_enc = EXCLUDED.gemini_key_enc,
			openai_key_enc = EXCLUDED.openai_key_enc,
			youtube_key_enc = EXCLUDED.youtube_key_enc,
			youtube_transcript_key_enc = EXCLUDED.youtube_transcript_key_enc,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		*owner.UserID, string(cfg.Provider), cfg.Model, sealed[0], sealed[1], sealed[2], sealed[3],
	)
	return err
}
