package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"clearcue-backend/internal/models"
)

const maxWatchRetries = 5

// LocalSessionRepo keeps each anonymous client's sessions as one JSON list in
// Redis, capped at models.LocalSessionLimit.
type LocalSessionRepo struct {
	rdb *redis.Client
}

func NewLocalSessionRepo(rdb *redis.Client) *LocalSessionRepo {
	return &LocalSessionRepo{rdb: rdb}
}

func localSessionsKey(owner models.Owner) string {
	return "clearcue:sessions:" + owner.ClientID
}

func (r *LocalSessionRepo) List(ctx context.Context, owner models.Owner) ([]*models.Session, error) {
	list, err := readSessionList(ctx, r.rdb, localSessionsKey(owner))
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Insert prepends s, evicting the oldest entries beyond the cap.
func (r *LocalSessionRepo) Insert(ctx context.Context, owner models.Owner, s *models.Session) error {
	return r.update(ctx, localSessionsKey(owner), func(list *models.SessionList) bool {
		list.Prepend(s)
		return true
	})
}

// Delete removes the matching id; unknown ids leave the list untouched.
func (r *LocalSessionRepo) Delete(ctx context.Context, owner models.Owner, id string) error {
	return r.update(ctx, localSessionsKey(owner), func(list *models.SessionList) bool {
		return list.Remove(id)
	})
}

// update runs fn inside a WATCH transaction so concurrent writers for the
// same client retry instead of overwriting each other.
func (r *LocalSessionRepo) update(ctx context.Context, key string, fn func(*models.SessionList) bool) error {
	txf := func(tx *redis.Tx) error {
		list, err := readSessionList(ctx, tx, key)
		if err != nil {
			return err
		}
		if !fn(list) {
			return nil
		}
		data, err := json.Marshal(list.Items)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: too many concurrent writers", key)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readSessionList(ctx context.Context, rdb stringGetter, key string) (*models.SessionList, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewSessionList([]*models.Session{}), nil
	}
	if err != nil {
		return nil, err
	}

	var items []*models.Session
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []*models.Session{}
	}
	return models.NewSessionList(items), nil
}
