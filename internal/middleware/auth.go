package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"clearcue-backend/internal/models"
)

type contextKey string

const OwnerKey contextKey = "owner"

// ClientIDHeader carries the anonymous client's stable id.
const ClientIDHeader = "X-Client-ID"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// JWTAuth verifies HS256 bearer tokens issued by the external auth service.
type JWTAuth struct {
	Secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret)}
}

// ParseToken verifies tokenStr and returns its user_id claim.
func (j *JWTAuth) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

// OptionalAuth resolves the request owner. A valid bearer token makes the
// owner an authenticated user; without one the X-Client-ID header identifies
// an anonymous client. A bearer token that fails verification is rejected.
func (j *JWTAuth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := models.Owner{ClientID: strings.TrimSpace(r.Header.Get(ClientIDHeader))}

		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
				return
			}

			userID, err := j.ParseToken(parts[1])
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
				} else {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
				}
				return
			}
			owner.UserID = &userID
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), OwnerKey, owner)))
	})
}

// RequireOwner rejects requests that carry neither a user nor a client id.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := GetOwner(r.Context())
		if !owner.Authenticated() && owner.ClientID == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in or send an "+ClientIDHeader+" header", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetOwner extracts the request owner from context.
func GetOwner(ctx context.Context) models.Owner {
	owner, _ := ctx.Value(OwnerKey).(models.Owner)
	return owner
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
