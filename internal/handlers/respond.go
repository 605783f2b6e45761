package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
	"clearcue-backend/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		cfgErr       *services.ConfigurationError
		validErr     *services.ValidationError
		invalidErr   *services.InvalidResponseError
		transportErr *services.TransportError
		persistErr   *services.PersistenceError
		notFoundErr  *services.NotFoundError
		unauthErr    *services.UnauthorizedError
	)

	switch {
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeConfiguration, cfgErr.Message, r))
	case errors.As(err, &validErr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields(services.CodeValidation, "Validation failed", validErr.Fields, r))
	case errors.As(err, &invalidErr):
		writeJSON(w, http.StatusBadGateway, errorResp(services.CodeInvalidResponse, invalidErr.Message, r))
	case errors.As(err, &transportErr):
		writeJSON(w, http.StatusBadGateway, errorResp(services.CodeTransport, transportErr.Error(), r))
	case errors.As(err, &persistErr):
		logger.Log.Error("persistence failure", zap.String("request_id", r.Header.Get("X-Request-ID")), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(services.CodePersistence, "Failed to "+persistErr.Op, r))
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResp(services.CodeNotFound, notFoundErr.Message, r))
	case errors.As(err, &unauthErr):
		writeJSON(w, http.StatusUnauthorized, errorResp(services.CodeUnauthorized, unauthErr.Message, r))
	default:
		logger.Log.Error("unhandled error", zap.String("request_id", r.Header.Get("X-Request-ID")), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(services.CodeInternal, "An unexpected error occurred", r))
	}
}
