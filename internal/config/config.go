// apps/go-server/internal/config/config.go
//
// Runtime configuration for the cryptic server and terminal client.
// Values come from the process environment, optionally seeded from a .env
// file in the working directory (godotenv). Command-line flags override
// individual fields after Load.
//
// Environment variables:
//   PORT                 HTTP port (5175)
//   LOG_LEVEL            zerolog level name (info)
//   DB_PATH              SQLite catalog path (./data/cryptic.db)
//   DAILY_SALT           HMAC salt for daily puzzle rotation
//   JWT_SECRET           HS256 secret for game session tokens
//   SESSION_TTL_HOURS    idle lifetime of a game session (12)
//   CLIENT_ORIGIN        CORS origin (http://localhost:5173)
//   COOKIE_NAME          session cookie name (cryptic_token)
//   ADMIN_USER           basic-auth user for puzzle import (admin)
//   ADMIN_PASSWORD_HASH  bcrypt hash; import is disabled when empty
//   PUZZLE_FILE          optional JSON file served as the default puzzle

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const devSecret = "dev_secret_change_me"

// Config is the resolved runtime configuration.
type Config struct {
	Port              string
	LogLevel          string
	DBPath            string
	DailySalt         string
	JWTSecret         string
	SessionTTL        time.Duration
	ClientOrigin      string
	CookieName        string
	AdminUser         string
	AdminPasswordHash string
	PuzzleFile        string
	Production        bool
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:              Str("PORT", "5175"),
		LogLevel:          Str("LOG_LEVEL", "info"),
		DBPath:            Str("DB_PATH", "./data/cryptic.db"),
		DailySalt:         Str("DAILY_SALT", "local_dev_salt"),
		JWTSecret:         Str("JWT_SECRET", devSecret),
		SessionTTL:        time.Duration(Int("SESSION_TTL_HOURS", 12)) * time.Hour,
		ClientOrigin:      Str("CLIENT_ORIGIN", "http://localhost:5173"),
		CookieName:        Str("COOKIE_NAME", "cryptic_token"),
		AdminUser:         Str("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		PuzzleFile:        os.Getenv("PUZZLE_FILE"),
		Production:        os.Getenv("NODE_ENV") == "production" || os.Getenv("APP_ENV") == "production",
	}
}

// Level returns the configured zerolog level, info when unparsable.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// DevSecret reports whether the JWT secret is the built-in default.
func (c Config) DevSecret() bool { return c.JWTSecret == devSecret }

// Str returns the value of k or def if unset/empty.
func Str(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Int returns k parsed as an int, or def.
func Int(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
