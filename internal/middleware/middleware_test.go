package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearcue-backend/internal/models"
)

// signToken mints an HS256 token the way the external auth service does.
func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func userClaims(userID uuid.UUID, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func captureOwner(got *models.Owner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetOwner(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token := signToken(t, "test-secret", userClaims(userID, 15*time.Minute))

	var owner models.Owner
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(ClientIDHeader, "browser-1")
	rr := httptest.NewRecorder()
	auth.OptionalAuth(captureOwner(&owner)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, owner.UserID)
	assert.Equal(t, userID, *owner.UserID)
}

func TestOptionalAuth_AnonymousClient(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	var owner models.Owner
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientIDHeader, "  browser-1 ")
	rr := httptest.NewRecorder()
	auth.OptionalAuth(captureOwner(&owner)).ServeHTTP(rr, req)

	assert.False(t, owner.Authenticated())
	assert.Equal(t, "browser-1", owner.ClientID)
}

func TestOptionalAuth_RejectsBadTokens(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	foreign := signToken(t, "other-secret", userClaims(uuid.New(), time.Minute))
	expired := signToken(t, "test-secret", userClaims(uuid.New(), -time.Minute))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"malformed header", "Token abc", "UNAUTHORIZED"},
		{"wrong secret", "Bearer " + foreign, "UNAUTHORIZED"},
		{"expired", "Bearer " + expired, "TOKEN_EXPIRED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tc.header)
			req.Header.Set(ClientIDHeader, "browser-1")
			rr := httptest.NewRecorder()
			auth.OptionalAuth(next).ServeHTTP(rr, req)

			assert.False(t, called, "next handler must not run for a rejected token")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.code)
		})
	}
}

func TestParseToken_MissingUserID(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()})

	_, err := auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRequireOwner(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	handler := auth.OptionalAuth(RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientIDHeader, "browser-1")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "given", rr.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	handler := CORS("http://localhost:5173/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), ClientIDHeader)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code, "request %d", i)
	}

	rr := send("10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code, "other clients must have their own bucket")
}
