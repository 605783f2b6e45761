package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"clearcue-backend/internal/models"
)

// LocalConfigRepo keeps each anonymous client's configuration as a JSON blob.
type LocalConfigRepo struct {
	rdb *redis.Client
}

func NewLocalConfigRepo(rdb *redis.Client) *LocalConfigRepo {
	return &LocalConfigRepo{rdb: rdb}
}

func localConfigKey(owner models.Owner) string {
	return "clearcue:api_config:" + owner.ClientID
}

// Load decodes the stored blob over the defaults, so fields missing from an
// older save keep their default values.
func (r *LocalConfigRepo) Load(ctx context.Context, owner models.Owner) (*models.ApiConfig, error) {
	data, err := r.rdb.Get(ctx, localConfigKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeConfigOverDefaults(data)
}

func (r *LocalConfigRepo) Save(ctx context.Context, owner models.Owner, cfg models.ApiConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, localConfigKey(owner), data, 0).Err()
}

func decodeConfigOverDefaults(data []byte) (*models.ApiConfig, error) {
	cfg := models.DefaultApiConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode stored config: %w", err)
	}
	return &cfg, nil
}
