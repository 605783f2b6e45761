package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clearcue-backend/internal/models"
)

// SQLiteStore is the CLI's local backend. It mirrors the Redis layout: one
// bounded session list and one config blob per client id.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q queryRower, key string) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM local_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

const upsertLocalState = `INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, datetime('now'))
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *SQLiteStore) List(ctx context.Context, owner models.Owner) ([]*models.Session, error) {
	list, err := s.readList(ctx, s.db, localSessionsKey(owner))
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, owner models.Owner, session *models.Session) error {
	return s.updateList(ctx, localSessionsKey(owner), func(list *models.SessionList) bool {
		list.Prepend(session)
		return true
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, owner models.Owner, id string) error {
	return s.updateList(ctx, localSessionsKey(owner), func(list *models.SessionList) bool {
		return list.Remove(id)
	})
}

func (s *SQLiteStore) updateList(ctx context.Context, key string, fn func(*models.SessionList) bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	list, err := s.readList(ctx, tx, key)
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
	if _, err := tx.ExecContext(ctx, upsertLocalState, key, string(data)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) readList(ctx context.Context, q queryRower, key string) (*models.SessionList, error) {
	data, err := s.get(ctx, q, key)
	if err != nil {
		return nil, err
	}
	items := []*models.Session{}
	if data != nil {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return models.NewSessionList(items), nil
}

func (s *SQLiteStore) Load(ctx context.Context, owner models.Owner) (*models.ApiConfig, error) {
	data, err := s.get(ctx, s.db, localConfigKey(owner))
	if err != nil || data == nil {
		return nil, err
	}
	return decodeConfigOverDefaults(data)
}

func (s *SQLiteStore) Save(ctx context.Context, owner models.Owner, cfg models.ApiConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertLocalState, localConfigKey(owner), string(data))
	return err
}
