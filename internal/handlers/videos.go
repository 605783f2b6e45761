package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
)

type VideoHandler struct {
	videos    *services.VideoService
	extractor *services.FileExtractService
}

func NewVideoHandler(videos *services.VideoService, extractor *services.FileExtractService) *VideoHandler {
	return &VideoHandler{videos: videos, extractor: extractor}
}

func (h *VideoHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.videos.Metadata(r.Context(), middleware.GetOwner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (h *VideoHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	transcript, err := h.videos.Transcript(r.Context(), middleware.GetOwner(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"videoId": id, "transcript": transcript})
}

func (h *VideoHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "Invalid request body", r))
		return
	}

	video, meta, err := h.videos.Resolve(r.Context(), middleware.GetOwner(r.Context()), req.URL)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videoId":   meta.VideoID,
		"videoData": video,
	})
}

// ExtractTranscript reads an uploaded transcript file from the "file" form field.
func (h *VideoHandler) ExtractTranscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxTranscriptFileSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxTranscriptFileSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "File too large or invalid form data", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxTranscriptFileSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "Failed to read file", r))
		return
	}
	if len(data) > services.MaxTranscriptFileSize {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "File exceeds the 10 MB limit", r))
		return
	}

	text, err := h.extractor.ExtractText(header.Filename, data)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": header.Filename, "transcript": text})
}
