package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"

	"clearcue-backend/internal/models"
)

const validPayload = `{
  "scores": {
    "compliance": {"score": 95, "explanation": "No policy concerns."},
    "thumbnail": {"score": 78, "explanation": "Text is small on mobile."},
    "title": {"score": 84, "explanation": "Clear and specific."},
    "description": {"score": 81, "explanation": "Missing chapters."},
    "seoOpportunity": {"score": 73, "explanation": "Competitive keywords."}
  },
  "issues": [
    {"ruleId": "ads-sensitive-language", "severity": "low", "evidence": "damn", "fix": "darn"}
  ],
  "recommendations": {
    "titles": ["A", "B", "C"],
    "description": "Hook. 00:00 Intro. Subscribe!",
    "hashtags": ["#go", "#backend"],
    "keywords": [{"phrase": "go tutorial", "intent": "informational", "difficulty": "medium"}],
    "thumbnailVariants": [{"id": "v1", "rationale": "Bigger face"}, {"id": "v2", "rationale": "High contrast"}]
  }
}`

// memSessionStore keeps per-owner lists. When limit > 0 it behaves like the
// bounded local store.
type memSessionStore struct {
	mu        sync.Mutex
	limit     int
	lists     map[string][]*models.Session
	insertErr error
	listErr   error
	inserts   int
}

func newMemSessionStore(limit int) *memSessionStore {
	return &memSessionStore{limit: limit, lists: map[string][]*models.Session{}}
}

func (m *memSessionStore) List(_ context.Context, owner models.Owner) ([]*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*models.Session(nil), m.lists[owner.Key()]...), nil
}

func (m *memSessionStore) Insert(_ context.Context, owner models.Owner, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	list := &models.SessionList{Limit: m.limit, Items: m.lists[owner.Key()]}
	list.Prepend(s)
	m.lists[owner.Key()] = list.Items
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, owner models.Owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := &models.SessionList{Items: m.lists[owner.Key()]}
	list.Remove(id)
	m.lists[owner.Key()] = list.Items
	return nil
}

type memConfigStore struct {
	configs map[string]models.ApiConfig
	loadErr error
	saveErr error
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{configs: map[string]models.ApiConfig{}}
}

func (m *memConfigStore) Load(_ context.Context, owner models.Owner) (*models.ApiConfig, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	cfg, ok := m.configs[owner.Key()]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (m *memConfigStore) Save(_ context.Context, owner models.Owner, cfg models.ApiConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.configs[owner.Key()] = cfg
	return nil
}

type fakeProvider struct {
	name  models.Provider
	model string
	raw   string
	err   error

	calls int
	parts []Part
}

func (f *fakeProvider) Name() models.Provider { return f.name }
func (f *fakeProvider) Model() string         { return f.model }

func (f *fakeProvider) Analyze(_ context.Context, parts []Part, schema *genai.Schema) (string, error) {
	f.calls++
	f.parts = parts
	if schema == nil {
		return "", errors.New("schema is required")
	}
	return f.raw, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.WSMessage
}

func (p *recordingPublisher) Publish(_ context.Context, _ models.Owner, msg models.WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
