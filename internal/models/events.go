package models

import "time"

// WebSocket message types
const (
	EventAnalysisStarted   = "analysis_started"
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
	EventSessionsUpdated   = "sessions_updated"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type AnalysisStatus struct {
	VideoTitle   string    `json:"videoTitle"`
	Provider     Provider  `json:"provider"`
	Model        string    `json:"model"`
	OverallScore int       `json:"overallScore,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	At           time.Time `json:"at"`
}

type SessionsUpdated struct {
	Count    int    `json:"count"`
	LatestID string `json:"latestId,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
