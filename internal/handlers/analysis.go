package handlers

import (
	"encoding/json"
	"net/http"

	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
)

// maxAnalyzeBody bounds the JSON body, which may carry a base64 thumbnail.
const maxAnalyzeBody = 12 << 20

type AnalysisHandler struct {
	analyzer *services.AnalyzerService
}

func NewAnalysisHandler(analyzer *services.AnalyzerService) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "Invalid request body", r))
		return
	}

	var image *models.ImagePayload
	if req.Thumbnail != nil {
		decoded, err := services.DecodeImagePayload(req.Thumbnail.Data, req.Thumbnail.MIMEType)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		image = decoded
	}

	resp, err := h.analyzer.Analyze(r.Context(), middleware.GetOwner(r.Context()), req.VideoData, image)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
