package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner identifies who a request acts for. A non-nil UserID selects the remote
// backends; otherwise ClientID keys the local ones.
type Owner struct {
	UserID   *uuid.UUID
	ClientID string
}

func (o Owner) Authenticated() bool {
	return o.UserID != nil
}

// Key is a stable string used for pub/sub channels and local storage keys.
func (o Owner) Key() string {
	if o.UserID != nil {
		return "user:" + o.UserID.String()
	}
	return "client:" + o.ClientID
}

type Session struct {
	ID               string         `json:"id"`
	UserID           *uuid.UUID     `json:"user_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	VideoTitle       string         `json:"videoTitle"`
	VideoData        VideoData      `json:"videoData"`
	AnalysisResult   AnalysisResult `json:"analysisResult"`
	ThumbnailPreview *string        `json:"thumbnailPreview"`
}

// LocalSessionLimit is how many sessions a local store keeps.
const LocalSessionLimit = 10

// SessionList is an ordered newest-first list capped at Limit entries.
type SessionList struct {
	Limit int
	Items []*Session
}

func NewSessionList(items []*Session) *SessionList {
	l := &SessionList{Limit: LocalSessionLimit, Items: items}
	l.trim()
	return l
}

// Prepend puts s first and drops the oldest entries beyond the limit.
func (l *SessionList) Prepend(s *Session) {
	l.Items = append([]*Session{s}, l.Items...)
	l.trim()
}

// Remove deletes the entry with the given id and reports whether one was found.
func (l *SessionList) Remove(id string) bool {
	for i, s := range l.Items {
		if s.ID == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *SessionList) trim() {
	if l.Limit > 0 && len(l.Items) > l.Limit {
		l.Items = l.Items[:l.Limit]
	}
}
