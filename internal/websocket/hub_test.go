package websocket

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearcue-backend/internal/middleware"
)

func signToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestOwnerFromQuery(t *testing.T) {
	hub := NewHub(nil, middleware.NewJWTAuth("test-secret"), "http://localhost:5173")

	userID := uuid.New()
	token := signToken(t, "test-secret", userID)

	owner, ok := hub.ownerFromQuery(httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token+"&client_id=ignored", nil))
	require.True(t, ok)
	require.NotNil(t, owner.UserID)
	assert.Equal(t, userID, *owner.UserID)

	owner, ok = hub.ownerFromQuery(httptest.NewRequest(http.MethodGet, "/api/v1/ws?client_id=browser-1", nil))
	require.True(t, ok)
	assert.False(t, owner.Authenticated())
	assert.Equal(t, "browser-1", owner.ClientID)

	_, ok = hub.ownerFromQuery(httptest.NewRequest(http.MethodGet, "/api/v1/ws?token=garbage&client_id=browser-1", nil))
	assert.False(t, ok, "an invalid token must not fall back to the client id")

	_, ok = hub.ownerFromQuery(httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	assert.False(t, ok)
}

func TestHandleWebSocket_Unauthorized(t *testing.T) {
	hub := NewHub(nil, middleware.NewJWTAuth("test-secret"), "http://localhost:5173")

	rr := httptest.NewRecorder()
	hub.HandleWebSocket(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCheckOrigin(t *testing.T) {
	hub := NewHub(nil, middleware.NewJWTAuth("test-secret"), "http://localhost:5173/")

	for origin, want := range map[string]bool{
		"":                      true,
		"http://localhost:5173": true,
		"http://evil.example":   false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		assert.Equal(t, want, hub.upgrader.CheckOrigin(req), "origin %q", origin)
	}
}
