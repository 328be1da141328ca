// internal/config/config.go
//
// Process configuration, read from the environment.
//
// A .env file in the working directory is loaded first (development); real
// environment variables win over it. Every setting has a default so the
// server starts with no configuration at all.
//
// Environment variables:
//   PORT=5175               HTTP listen port
//   LOG_LEVEL=info          zerolog level (trace, debug, info, warn, error)
//   LOG_PRETTY=             non-empty → human readable console logs
//   WORDS_FILE=             dictionary file; empty → embedded list
//   DB_PATH=./data/termo.db SQLite file for finished games; "off" disables it
//   JWT_SECRET=             HS256 secret for player tokens
//   JWT_EXPIRES_DAYS=14     player token lifetime
//   DAILY_SALT=             key for the daily word selection
//   CLIENT_ORIGIN=          allowed CORS origin
//   SOLVE_TIMEOUT=10s       per-request time budget
//   WORKERS=0               scoring goroutines; 0 → GOMAXPROCS

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable of the process.
type Config struct {
	Port         string
	LogLevel     string
	LogPretty    bool
	WordsFile    string
	DBPath       string
	JWTSecret    string
	JWTExpiry    time.Duration
	DailySalt    string
	ClientOrigin string
	SolveTimeout time.Duration
	Workers      int
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    os.Getenv("LOG_PRETTY") != "",
		WordsFile:    os.Getenv("WORDS_FILE"),
		DBPath:       getEnv("DB_PATH", "./data/termo.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiry:    time.Duration(getInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SolveTimeout: getDuration("SOLVE_TIMEOUT", 10*time.Second),
		Workers:      getInt("WORKERS", 0),
	}
}

// DBEnabled reports whether finished games should be recorded.
func (c Config) DBEnabled() bool { return c.DBPath != "" && c.DBPath != "off" }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a duration, using default")
		return def
	}
	return d
}
