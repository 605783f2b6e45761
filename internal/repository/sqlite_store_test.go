package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearcue-backend/internal/database"
	"clearcue-backend/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "nested", "clearcue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func TestSQLiteStore_SessionsCapped(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	owner := models.Owner{ClientID: "cli"}

	for i := 1; i <= models.LocalSessionLimit+2; i++ {
		require.NoError(t, store.Insert(ctx, owner, &models.Session{
			ID:         fmt.Sprintf("s%d", i),
			VideoTitle: fmt.Sprintf("Video %d", i),
			CreatedAt:  time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC),
		}))
	}

	sessions, err := store.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, models.LocalSessionLimit)
	assert.Equal(t, "s12", sessions[0].ID)
	assert.Equal(t, "s3", sessions[len(sessions)-1].ID)
}

func TestSQLiteStore_DeleteScopedToClient(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	alice := models.Owner{ClientID: "alice"}
	bob := models.Owner{ClientID: "bob"}

	require.NoError(t, store.Insert(ctx, alice, &models.Session{ID: "a1", VideoTitle: "A"}))
	require.NoError(t, store.Insert(ctx, bob, &models.Session{ID: "b1", VideoTitle: "B"}))

	require.NoError(t, store.Delete(ctx, bob, "a1"))
	aliceSessions, err := store.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, aliceSessions, 1)

	require.NoError(t, store.Delete(ctx, alice, "a1"))
	aliceSessions, err = store.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceSessions)
	assert.NotNil(t, aliceSessions)
}

func TestSQLiteStore_Config(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	owner := models.Owner{ClientID: "cli"}

	cfg, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	want := models.DefaultApiConfig().WithProvider(models.ProviderOpenAI)
	want.OpenAIKey = "sk-test"
	require.NoError(t, store.Save(ctx, owner, want))

	got, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestDecodeConfigOverDefaults(t *testing.T) {
	cfg, err := decodeConfigOverDefaults([]byte(`{"geminiKey":"g"}`))
	require.NoError(t, err)
	assert.Equal(t, "g", cfg.GeminiKey)
	assert.Equal(t, models.ProviderGemini, cfg.Provider)
	assert.Equal(t, models.DefaultTranscriptKey, cfg.YoutubeTranscriptKey)

	_, err = decodeConfigOverDefaults([]byte(`{`))
	assert.Error(t, err)
}
