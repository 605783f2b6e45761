package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"clearcue-backend/internal/config"
	"clearcue-backend/internal/database"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/repository"
	"clearcue-backend/internal/services"
	"clearcue-backend/pkg/logger"
)

// cliOwner is the single anonymous owner of the CLI's local store.
var cliOwner = models.Owner{ClientID: "cli"}

type app struct {
	cfg      *config.Config
	db       *sql.DB
	configs  *services.ConfigService
	sessions *services.SessionService
}

func openApp() (*app, error) {
	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	if cfg.DefaultTranscriptKey != "" {
		models.DefaultTranscriptKey = cfg.DefaultTranscriptKey
	}

	path := cfg.SQLitePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".clearcue", "clearcue.db")
	}
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	store := repository.NewSQLiteStore(db)
	stores := services.Stores{LocalSessions: store, LocalConfig: store}
	return &app{
		cfg:      cfg,
		db:       db,
		configs:  services.NewConfigService(stores),
		sessions: services.NewSessionService(stores, nil),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	logger.Sync()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return "****" + s[len(s)-4:]
}
