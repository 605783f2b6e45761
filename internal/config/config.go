package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"clearcue-backend/internal/database"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	// Redis
	RedisURL string

	// JWT (tokens are issued by the external auth provider)
	JWTSecret string

	// Encrypts provider keys stored in user_api_configs
	ConfigEncryptionKey string

	// Analysis
	AnalysisLanguage     string
	DefaultTranscriptKey string
	TranscriptAPIURL     string
	HTTPClientTimeout    time.Duration

	// HTTP API guard
	RateLimitPerMinute int

	// Logging
	LogLevel string
	LogFile  string

	// CLI local store
	SQLitePath string

	// Frontend
	FrontendURL string
}

var requiredServerKeys = []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET", "CONFIG_ENCRYPTION_KEY"}

// Load reads .env (if present) and the environment. Required server keys are
// checked by Validate, so the CLI can load the same config without them.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:                 v.GetString("PORT"),
		Env:                  v.GetString("ENV"),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		DBMaxConns:           v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:           v.GetInt32("DB_MIN_CONNS"),
		DBConnMaxLifetime:    v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime:    v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		RedisURL:             v.GetString("REDIS_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		ConfigEncryptionKey:  v.GetString("CONFIG_ENCRYPTION_KEY"),
		AnalysisLanguage:     v.GetString("ANALYSIS_LANGUAGE"),
		DefaultTranscriptKey: v.GetString("DEFAULT_TRANSCRIPT_KEY"),
		TranscriptAPIURL:     v.GetString("TRANSCRIPT_API_URL"),
		HTTPClientTimeout:    v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		RateLimitPerMinute:   v.GetInt("RATE_LIMIT_PER_MINUTE"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFile:              v.GetString("LOG_FILE"),
		SQLitePath:           v.GetString("SQLITE_PATH"),
		FrontendURL:          v.GetString("FRONTEND_URL"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	v.SetDefault("ANALYSIS_LANGUAGE", "Vietnamese")
	v.SetDefault("DEFAULT_TRANSCRIPT_KEY", "")
	v.SetDefault("TRANSCRIPT_API_URL", "https://www.youtube-transcript.io/api/transcripts")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", 30*time.Second)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SQLITE_PATH", "")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
}

// PostgresPool returns the pool settings for the remote stores.
func (c *Config) PostgresPool() database.PoolConfig {
	return database.PoolConfig{
		URL:             c.DatabaseURL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: c.DBConnMaxLifetime,
		MaxConnIdleTime: c.DBConnMaxIdleTime,
	}
}

// Validate reports every missing key the HTTP server needs.
func (c *Config) Validate() error {
	values := map[string]string{
		"DATABASE_URL":          c.DatabaseURL,
		"REDIS_URL":             c.RedisURL,
		"JWT_SECRET":            c.JWTSecret,
		"CONFIG_ENCRYPTION_KEY": c.ConfigEncryptionKey,
	}

	var missing []string
	for _, key := range requiredServerKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
