package services

import (
	"encoding/base64"
	"net/http"
	"strings"

	"clearcue-backend/internal/models"
)

const defaultImageMIME = "image/jpeg"

// DecodeImagePayload turns a base64 body, optionally carrying a data-URL
// header, into raw image bytes. An empty body yields nil.
func DecodeImagePayload(body, mimeType string) (*models.ImagePayload, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	if strings.HasPrefix(body, "data:") {
		header, data, ok := strings.Cut(body, ",")
		if !ok {
			return nil, &ValidationError{Fields: map[string]string{"thumbnail": "Malformed data URL"}}
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		}
		body = data
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"thumbnail": "Thumbnail is not valid base64"}}
		}
	}
	return NewImagePayload(data, mimeType)
}

// NewImagePayload applies the thumbnail MIME rules to raw bytes: an empty
// mimeType is sniffed, unknown types fall back to JPEG and anything that is
// not an image is rejected. Empty data yields nil.
func NewImagePayload(data []byte, mimeType string) (*models.ImagePayload, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	mimeType = strings.TrimSpace(strings.Split(mimeType, ";")[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = defaultImageMIME
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &ValidationError{Fields: map[string]string{"thumbnail": "Thumbnail must be an image"}}
	}

	return &models.ImagePayload{MIMEType: mimeType, Data: data}, nil
}
