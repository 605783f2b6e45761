package services

import (
	"context"

	"clearcue-backend/internal/models"
)

type ConfigService struct {
	stores   Stores
	defaults func() models.ApiConfig
}

func NewConfigService(stores Stores) *ConfigService {
	return &ConfigService{stores: stores, defaults: models.DefaultApiConfig}
}

// Resolve returns the owner's effective configuration. An owner with no saved
// record gets the defaults; a saved record missing provider or model has them
// backfilled.
func (s *ConfigService) Resolve(ctx context.Context, owner models.Owner) (models.ApiConfig, error) {
	store, _, err := s.stores.configFor(owner)
	if err != nil {
		return models.ApiConfig{}, err
	}

	saved, err := store.Load(ctx, owner)
	if err != nil {
		return models.ApiConfig{}, &PersistenceError{Op: "load API configuration", Err: err}
	}
	if saved == nil {
		return s.defaults(), nil
	}

	cfg := *saved
	if cfg.Provider == "" {
		cfg.Provider = s.defaults().Provider
	}
	if cfg.Model == "" {
		cfg.Model = models.DefaultModel(cfg.Provider)
	}
	return cfg, nil
}

// Save validates cfg and writes every field to the owner's active backend.
func (s *ConfigService) Save(ctx context.Context, owner models.Owner, cfg models.ApiConfig) (models.ApiConfig, error) {
	if cfg.Provider == "" {
		cfg.Provider = s.defaults().Provider
	}
	if cfg.Model == "" {
		cfg.Model = models.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		field := "model"
		if !cfg.Provider.Known() {
			field = "provider"
		}
		return models.ApiConfig{}, &ValidationError{Fields: map[string]string{field: err.Error()}}
	}

	store, _, err := s.stores.configFor(owner)
	if err != nil {
		return models.ApiConfig{}, err
	}
	if err := store.Save(ctx, owner, cfg); err != nil {
		return models.ApiConfig{}, &PersistenceError{Op: "save API configuration", Err: err}
	}
	return cfg, nil
}

// Providers lists the selectable providers with their models.
func (s *ConfigService) Providers() []models.ProviderInfo {
	out := make([]models.ProviderInfo, 0, len(models.Providers()))
	for _, p := range models.Providers() {
		out = append(out, models.ProviderInfo{Provider: p, Models: models.ModelsFor(p)})
	}
	return out
}
