package services

import (
	"context"

	"clearcue-backend/internal/models"
)

// SessionStore persists analysis sessions for one owner. List returns newest first.
type SessionStore interface {
	List(ctx context.Context, owner models.Owner) ([]*models.Session, error)
	Insert(ctx context.Context, owner models.Owner, s *models.Session) error
	Delete(ctx context.Context, owner models.Owner, id string) error
}

// ConfigStore persists one ApiConfig per owner. Load returns nil, nil when the
// owner has never saved a configuration.
type ConfigStore interface {
	Load(ctx context.Context, owner models.Owner) (*models.ApiConfig, error)
	Save(ctx context.Context, owner models.Owner, cfg models.ApiConfig) error
}

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Stores picks the remote or local backend for an owner. Remote stores may be
// nil when the process has no remote database (the CLI).
type Stores struct {
	RemoteSessions SessionStore
	LocalSessions  SessionStore
	RemoteConfig   ConfigStore
	LocalConfig    ConfigStore
}

func (s Stores) sessionsFor(owner models.Owner) (SessionStore, string, error) {
	if owner.Authenticated() {
		if s.RemoteSessions == nil {
			return nil, "", &ConfigurationError{Message: "Remote session storage is not available"}
		}
		return s.RemoteSessions, BackendRemote, nil
	}
	if owner.ClientID == "" {
		return nil, "", &ValidationError{Fields: map[string]string{"client_id": "A client id is required for anonymous requests"}}
	}
	return s.LocalSessions, BackendLocal, nil
}

func (s Stores) configFor(owner models.Owner) (ConfigStore, string, error) {
	if owner.Authenticated() {
		if s.RemoteConfig == nil {
			return nil, "", &ConfigurationError{Message: "Remote configuration storage is not available"}
		}
		return s.RemoteConfig, BackendRemote, nil
	}
	if owner.ClientID == "" {
		return nil, "", &ValidationError{Fields: map[string]string{"client_id": "A client id is required for anonymous requests"}}
	}
	return s.LocalConfig, BackendLocal, nil
}
